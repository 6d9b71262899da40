package gate

import "strings"

// RouteCategory is the gating bucket a request path falls into.
type RouteCategory int

const (
	// RouteBypass paths skip the gate entirely: static assets, health and
	// metrics endpoints, the public API namespace, and debug utilities.
	RouteBypass RouteCategory = iota
	// RouteAuthPage covers the login and register surface.
	RouteAuthPage
	// RouteRootPage is exactly "/".
	RouteRootPage
	// RouteProtectedDashboard covers /dashboard and everything below it.
	RouteProtectedDashboard
)

func (c RouteCategory) String() string {
	switch c {
	case RouteAuthPage:
		return "auth-page"
	case RouteRootPage:
		return "root"
	case RouteProtectedDashboard:
		return "protected"
	default:
		return "bypass"
	}
}

// DefaultBypassPrefixes lists the path prefixes excluded from the auth gate.
var DefaultBypassPrefixes = []string{
	"/static/",
	"/healthz",
	"/metrics",
	"/api/public/",
	"/debug/",
}

var authPagePrefixes = []string{"/login", "/register"}

// Classifier buckets request paths. Matching is case-sensitive prefix
// matching, bypass prefixes checked first.
type Classifier struct {
	bypass []string
}

// NewClassifier constructs a Classifier over the given bypass prefixes.
func NewClassifier(bypassPrefixes []string) *Classifier {
	return &Classifier{bypass: bypassPrefixes}
}

// Classify maps a request path onto its route category. Paths matching no
// configured prefix fall through to RouteBypass: unlisted pages are public.
// That default is a contract, not an accident; changing it to deny would break
// every public page that is not an auth page.
func (c *Classifier) Classify(path string) RouteCategory {
	for _, prefix := range c.bypass {
		if strings.HasPrefix(path, prefix) {
			return RouteBypass
		}
	}
	for _, prefix := range authPagePrefixes {
		if strings.HasPrefix(path, prefix) {
			return RouteAuthPage
		}
	}
	if path == "/" {
		return RouteRootPage
	}
	if strings.HasPrefix(path, "/dashboard") {
		return RouteProtectedDashboard
	}
	return RouteBypass
}
