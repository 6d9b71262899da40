package gate

import "strings"

// ActionKind enumerates the possible outcomes of a gate decision.
type ActionKind int

const (
	// ActionAllow forwards the request to its handler unchanged.
	ActionAllow ActionKind = iota
	// ActionRedirect answers with a redirect to Action.Location.
	ActionRedirect
	// ActionRedirectClearCookie redirects to the login page and deletes the
	// session cookie. Used only on the protected tree, where leaving a stale
	// cookie in place would loop the browser through the redirect forever.
	ActionRedirectClearCookie
)

// Action is the gate's verdict for one request.
type Action struct {
	Kind     ActionKind
	Location string
}

const loginPath = "/login"

// Decide runs the routing state machine. principal is non-nil only when the
// cookie was present and verified; tokenPresent distinguishes "no cookie" from
// "cookie failed verification". Every (category, presence, validity, role)
// combination lands in exactly one branch below.
func Decide(category RouteCategory, tokenPresent bool, principal *Principal, path string) Action {
	switch category {
	case RouteBypass:
		return Action{Kind: ActionAllow}

	case RouteAuthPage:
		// Logged-in users never see the login form. An invalid leftover
		// cookie is treated as anonymous and left alone: a successful
		// login overwrites it, and clearing here would gain nothing.
		if principal != nil {
			return Action{Kind: ActionRedirect, Location: principal.Role.LandingPath()}
		}
		return Action{Kind: ActionAllow}

	case RouteRootPage:
		if principal != nil {
			return Action{Kind: ActionRedirect, Location: principal.Role.LandingPath()}
		}
		return Action{Kind: ActionRedirect, Location: loginPath}

	default: // RouteProtectedDashboard
		if !tokenPresent {
			return Action{Kind: ActionRedirect, Location: loginPath}
		}
		if principal == nil {
			return Action{Kind: ActionRedirectClearCookie, Location: loginPath}
		}
		// Role scoping before the bare-/dashboard forward, so a wrong-role
		// visit to /dashboard redirects once, straight to the right landing
		// page. Cross-role access redirects rather than 403s to avoid
		// leaking the other tree's structure.
		if !strings.HasPrefix(path, principal.Role.AllowedPrefix()) {
			return Action{Kind: ActionRedirect, Location: principal.Role.LandingPath()}
		}
		if path == "/dashboard" {
			return Action{Kind: ActionRedirect, Location: principal.Role.LandingPath()}
		}
		return Action{Kind: ActionAllow}
	}
}
