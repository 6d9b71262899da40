package gate

// Role identifies which dashboard sub-tree a principal may reach.
type Role string

// Platform roles. The codec rejects any token whose role claim is not one of
// these, so code downstream of the gate can treat the set as closed.
const (
	RolePlatformAdmin Role = "PLATFORM_ADMIN"
	RoleCompanyAdmin  Role = "COMPANY_ADMIN"
	RoleStaff         Role = "STAFF"
)

// Policy holds the routing entries for a single role.
type Policy struct {
	AllowedPrefix string
	LandingPath   string
}

// rolePolicies is the process-wide routing table. It is never mutated after
// init; ParseRole guarantees every Role reaching a lookup has an entry.
var rolePolicies = map[Role]Policy{
	RolePlatformAdmin: {AllowedPrefix: "/dashboard/admin", LandingPath: "/dashboard/admin"},
	RoleCompanyAdmin:  {AllowedPrefix: "/dashboard/company", LandingPath: "/dashboard/company"},
	RoleStaff:         {AllowedPrefix: "/dashboard/learn", LandingPath: "/dashboard/learn"},
}

// ParseRole maps a raw role claim onto the closed role set.
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	_, ok := rolePolicies[role]
	return role, ok
}

// LandingPath returns the canonical post-login destination for a role.
func (r Role) LandingPath() string {
	return rolePolicies[r].LandingPath
}

// AllowedPrefix returns the dashboard sub-tree a role may browse.
func (r Role) AllowedPrefix() string {
	return rolePolicies[r].AllowedPrefix
}
