package rbac

import (
	"slices"
	"strconv"
	"strings"
)

// Well-known role identifiers. Roles are flat: no role implies another.
const (
	RoleSuperAdmin int64 = 1
	RoleAuditor    int64 = 2
	RoleRegistrar  int64 = 3
)

// Route names a protected operation in the policy table.
type Route string

const (
	ProductsList   Route = "products.list"
	ProductsCreate Route = "products.create"
	ProductsUpdate Route = "products.update"
	ProductsDelete Route = "products.delete"

	UsersList   Route = "users.list"
	UsersCreate Route = "users.create"
	UsersUpdate Route = "users.update"
	UsersDelete Route = "users.delete"

	RolesList   Route = "roles.list"
	RolesCreate Route = "roles.create"
	RolesUpdate Route = "roles.update"
	RolesDelete Route = "roles.delete"

	DashboardSummary Route = "dashboard.summary"
)

// RoleSet is an allow-list of role identifiers.
type RoleSet map[int64]struct{}

// Roles builds a RoleSet from ids.
func Roles(ids ...int64) RoleSet {
	set := make(RoleSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports exact membership of id.
func (s RoleSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s RoleSet) String() string {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Access describes how a route is guarded.
type Access int

const (
	// AccessRoles requires authentication and membership in Rule.Roles.
	AccessRoles Access = iota
	// AccessAuthenticated requires authentication only.
	AccessAuthenticated
	// AccessPublic requires nothing.
	AccessPublic
)

// Rule is one policy entry.
type Rule struct {
	Access Access
	Roles  RoleSet
}

// Policy maps routes to their rules. Routes absent from the table are denied.
type Policy map[Route]Rule

// Lookup returns the rule for route.
func (p Policy) Lookup(route Route) (Rule, bool) {
	rule, ok := p[route]
	return rule, ok
}

func allow(ids ...int64) Rule {
	return Rule{Access: AccessRoles, Roles: Roles(ids...)}
}

// DefaultPolicy is the allow-list enforced by the HTTP router. Reads of the
// product catalogue are open; every mutation is role gated.
var DefaultPolicy = Policy{
	ProductsList:   {Access: AccessPublic},
	ProductsCreate: allow(RoleSuperAdmin, RoleRegistrar),
	ProductsUpdate: allow(RoleSuperAdmin, RoleRegistrar),
	ProductsDelete: allow(RoleSuperAdmin, RoleRegistrar),

	UsersList:   {Access: AccessAuthenticated},
	UsersCreate: allow(RoleSuperAdmin),
	UsersUpdate: allow(RoleSuperAdmin),
	UsersDelete: allow(RoleSuperAdmin),

	RolesList:   allow(RoleSuperAdmin),
	RolesCreate: allow(RoleSuperAdmin),
	RolesUpdate: allow(RoleSuperAdmin),
	RolesDelete: allow(RoleSuperAdmin),

	DashboardSummary: allow(RoleSuperAdmin),
}
