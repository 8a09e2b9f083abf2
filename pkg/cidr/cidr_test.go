package cidr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContains(t *testing.T) {
	tests := []struct {
		cidr string
		ip   string
		want bool
	}{
		{"10.0.0.0/24", "10.0.0.5", true},
		{"10.0.0.0/24", "10.0.0.255", true},
		{"10.0.0.0/24", "10.0.1.5", false},
		{"0.0.0.0/0", "1.2.3.4", true},
		{"0.0.0.0/0", "255.255.255.255", true},
		{"192.168.1.7/32", "192.168.1.7", true},
		{"192.168.1.7/32", "192.168.1.8", false},
		{"185.107.232.0/24", "185.107.232.44", true},
		// malformed or non-IPv4 input fails closed
		{"10.0.0.0/24", "", false},
		{"10.0.0.0/24", "not-an-ip", false},
		{"10.0.0.0/24", "::1", false},
		{"10.0.0.0/24", "10.0.0", false},
		{"10.0.0.0/24", "10.0.0.256", false},
	}
	for _, tt := range tests {
		r, err := Parse(tt.cidr)
		require.NoError(t, err, tt.cidr)
		assert.Equal(t, tt.want, r.Contains(tt.ip), "%s in %s", tt.ip, tt.cidr)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "10.0.0.0/33", "10.0.0.0/-1", "10.0.0/24", "10.0.0.0/x", "fe80::/10"} {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestParseWithoutPrefixIsHostRange(t *testing.T) {
	r, err := Parse("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, r.Contains("1.2.3.4"))
	assert.False(t, r.Contains("1.2.3.5"))
}

func TestParseList(t *testing.T) {
	ranges, err := ParseList(" 10.0.0.0/24 , 185.107.232.0/24,")
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.True(t, ContainsAny(ranges, "185.107.232.9"))
	assert.False(t, ContainsAny(ranges, "185.107.233.9"))

	empty, err := ParseList("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseList("10.0.0.0/24,bogus")
	assert.Error(t, err)
}
