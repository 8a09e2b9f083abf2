package instances

import "regexp"

// namePattern: 3-63 chars, lowercase alphanumeric and hyphens, must start
// and end with an alphanumeric (a valid DNS subdomain label).
var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,61}[a-z0-9]$`)

// IsValidName reports whether candidate is an acceptable instance name.
func IsValidName(candidate string) bool {
	return namePattern.MatchString(candidate)
}

// reservedNames must not be claimed as instance subdomains, regardless of
// whether they are currently free. Fixed for the process lifetime.
var reservedNames = map[string]struct{}{
	"www":     {},
	"admin":   {},
	"aam":     {},
	"api":     {},
	"app":     {},
	"mail":    {},
	"smtp":    {},
	"ftp":     {},
	"dev":     {},
	"staging": {},
	"demo":    {},
	"test":    {},
	"status":  {},
}

// IsReservedName reports whether name is on the reserved list.
func IsReservedName(name string) bool {
	_, ok := reservedNames[name]
	return ok
}
