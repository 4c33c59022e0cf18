package domain

import "strings"

// Role name constants define the closed set of account roles. The same
// constants are shared by the HTTP client package so both ends of the API
// agree on the enumeration.
const (
	RoleJobseeker = "jobseeker"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// Role is a registry record mapping a role identifier to its name. Role rows
// are seeded by migration and read-only from the auth flow's perspective.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"role_name"`
}

// ValidRoles returns the set of valid role names.
func ValidRoles() []string {
	return []string{RoleJobseeker, RoleRecruiter, RoleAdmin}
}

// IsValidRole checks whether the given name is a valid role. Names are
// case-normalized to lowercase before comparison.
func IsValidRole(name string) bool {
	for _, r := range ValidRoles() {
		if r == NormalizeRole(name) {
			return true
		}
	}
	return false
}

// NormalizeRole lowercases and trims a role name for registry lookup.
func NormalizeRole(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
