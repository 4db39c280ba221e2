package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hifood/hifood-server/internal/models"
)

func TestDefaultPolicy(t *testing.T) {
	p := Default()

	require.True(t, p.Allows(models.RoleAdmin, OpProductsWrite))
	require.False(t, p.Allows(models.RoleStaff, OpProductsWrite))
	require.False(t, p.Allows(models.RoleUser, OpProductsWrite))

	require.True(t, p.Allows(models.RoleStaff, OpOrdersStatus))
	require.True(t, p.Allows(models.RoleAdmin, OpOrdersStatus))
	require.False(t, p.Allows(models.RoleUser, OpOrdersStatus))

	require.True(t, p.Allows(models.RoleUser, OpOrdersCreate))

	require.True(t, p.Allows(models.RoleAdmin, OpUsersDelete))
	require.False(t, p.Allows(models.RoleStaff, OpUsersDelete))
}

func TestEmptyRoleCountsAsUser(t *testing.T) {
	p := Default()

	require.True(t, p.Allows("", OpOrdersCreate))
	require.False(t, p.Allows("", OpOrdersRead))
}

func TestUnknownRoleAllowsNothing(t *testing.T) {
	p := Default()

	require.False(t, p.Allows("superadmin", OpProductsWrite))
	require.False(t, p.Allows("superadmin", OpOrdersCreate))
}
