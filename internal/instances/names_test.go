package instances

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidName(t *testing.T) {
	valid := []string{
		"abc",
		"my-organization",
		"a-b",
		"0rg",
		"org9",
		"x1y",
		strings.Repeat("a", 63),
	}
	for _, name := range valid {
		assert.True(t, IsValidName(name), name)
	}

	invalid := []string{
		"",
		"a",
		"ab", // too short
		strings.Repeat("a", 64),
		"-bad",
		"bad-",
		"Bad",
		"UPPER",
		"under_score",
		"dot.ted",
		"spa ce",
		"ümlaut",
		"naïve-org",
		"emoji😀org",
	}
	for _, name := range invalid {
		assert.False(t, IsValidName(name), name)
	}
}

func TestIsReservedName(t *testing.T) {
	for _, name := range []string{"www", "admin", "aam", "api", "app", "mail", "smtp", "ftp", "dev", "staging", "demo", "test", "status"} {
		assert.True(t, IsReservedName(name), name)
	}
	assert.False(t, IsReservedName("my-organization"))
	// reservation is exact and lowercase only; "Admin" already fails format
	assert.False(t, IsReservedName("Admin"))
}
