// Package authz maps roles to the operations they may perform. Handlers
// never compare role strings directly; they ask the policy table.
package authz

import "github.com/hifood/hifood-server/internal/models"

// Operation names the role-gated actions of the API.
type Operation string

const (
	OpProductsWrite  Operation = "products.write"
	OpOrdersCreate   Operation = "orders.create"
	OpOrdersRead     Operation = "orders.read"
	OpOrdersStatus   Operation = "orders.update_status"
	OpUsersRead      Operation = "users.read"
	OpUsersDelete    Operation = "users.delete"
	OpAdminDashboard Operation = "admin.dashboard"
)

// Policy is a static role/operation table.
type Policy map[Operation][]string

// Default is the application policy: admins manage the catalog and
// users, staff and admins work the order queue, any authenticated user
// may place an order.
func Default() Policy {
	return Policy{
		OpProductsWrite:  {models.RoleAdmin},
		OpOrdersCreate:   {models.RoleUser, models.RoleStaff, models.RoleAdmin},
		OpOrdersRead:     {models.RoleStaff, models.RoleAdmin},
		OpOrdersStatus:   {models.RoleStaff, models.RoleAdmin},
		OpUsersRead:      {models.RoleAdmin},
		OpUsersDelete:    {models.RoleAdmin},
		OpAdminDashboard: {models.RoleAdmin},
	}
}

// Allows reports whether role may perform op. A user record with no
// role stored counts as a plain user.
func (p Policy) Allows(role string, op Operation) bool {
	if role == "" {
		role = models.RoleUser
	}
	for _, allowed := range p[op] {
		if role == allowed {
			return true
		}
	}
	return false
}
