// Package cidr implements IPv4 CIDR containment for the webhook IP
// allowlist. Only IPv4 is supported; anything that does not parse as a
// dotted-quad IPv4 address fails closed (no match) rather than erroring.
package cidr

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an immutable IPv4 network: base address plus prefix length.
type Range struct {
	base   uint32
	prefix int
}

// Parse parses "a.b.c.d/n". A missing prefix means /32 (a single host).
func Parse(s string) (Range, error) {
	addr := s
	prefix := 32
	if i := strings.IndexByte(s, '/'); i >= 0 {
		addr = s[:i]
		p, err := strconv.Atoi(s[i+1:])
		if err != nil || p < 0 || p > 32 {
			return Range{}, fmt.Errorf("cidr: bad prefix in %q", s)
		}
		prefix = p
	}
	base, ok := parseIPv4(addr)
	if !ok {
		return Range{}, fmt.Errorf("cidr: bad address in %q", s)
	}
	return Range{base: base, prefix: prefix}, nil
}

// ParseList parses a comma-separated allowlist, ignoring empty entries.
// An empty input yields an empty (nil) list.
func ParseList(s string) ([]Range, error) {
	var out []Range
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Contains reports whether ip (dotted-quad IPv4) falls within the range.
// Malformed or non-IPv4 input never matches.
func (r Range) Contains(ip string) bool {
	a, ok := parseIPv4(ip)
	if !ok {
		return false
	}
	return a&r.mask() == r.base&r.mask()
}

// ContainsAny reports whether ip falls within at least one of the ranges.
func ContainsAny(ranges []Range, ip string) bool {
	for _, r := range ranges {
		if r.Contains(ip) {
			return true
		}
	}
	return false
}

func (r Range) String() string {
	return fmt.Sprintf("%d.%d.%d.%d/%d", byte(r.base>>24), byte(r.base>>16), byte(r.base>>8), byte(r.base), r.prefix)
}

func (r Range) mask() uint32 {
	if r.prefix == 0 {
		return 0
	}
	return ^uint32(0) << (32 - r.prefix)
}

func parseIPv4(s string) (uint32, bool) {
	var v uint32
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, false
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return 0, false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return 0, false
		}
		v = v<<8 | uint32(n)
	}
	return v, true
}
