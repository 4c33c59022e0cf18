package client

import "github.com/hirelane/jobportal/internal/domain"

// Decision is the outcome of evaluating a route against the visitor's
// session state.
type Decision int

const (
	// Allow lets the visitor through to the route.
	Allow Decision = iota
	// RedirectLogin sends an unauthenticated visitor to the login page.
	RedirectLogin
	// RedirectDashboard sends an authenticated visitor to their own role's
	// dashboard. Used both for public-only pages (login, register) and for
	// routes whose required role does not match.
	RedirectDashboard
)

// Route requirement markers. A route requires either one of the role names
// from the domain enum, any authenticated session, or no session at all.
const (
	// RequireNone marks a route open to everyone.
	RequireNone = ""
	// RequireGuest marks a public-only route such as login or register.
	RequireGuest = "guest"
	// RequireAuthenticated marks a route needing a session of any role.
	RequireAuthenticated = "authenticated"
)

// Guard decides what to do with a visitor requesting a route. It is a pure
// function of the session state and the route's requirement; mismatched
// roles go to their own dashboard rather than a forbidden page.
func Guard(authenticated bool, accountRole, requiredRole string) Decision {
	switch requiredRole {
	case RequireNone:
		return Allow
	case RequireGuest:
		if authenticated {
			return RedirectDashboard
		}
		return Allow
	case RequireAuthenticated:
		if !authenticated {
			return RedirectLogin
		}
		return Allow
	default:
		if !authenticated {
			return RedirectLogin
		}
		if domain.NormalizeRole(accountRole) != domain.NormalizeRole(requiredRole) {
			return RedirectDashboard
		}
		return Allow
	}
}

// DashboardPath maps a role to its dashboard route. Unknown roles land on
// the root page.
func DashboardPath(role string) string {
	switch domain.NormalizeRole(role) {
	case domain.RoleJobseeker:
		return "/jobseeker/dashboard"
	case domain.RoleRecruiter:
		return "/recruiter/dashboard"
	case domain.RoleAdmin:
		return "/admin/dashboard"
	default:
		return "/"
	}
}
