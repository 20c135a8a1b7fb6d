package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func staffUser() *UserProfile {
	return &UserProfile{
		ID:       3,
		Username: "carlos",
		IsStaff:  true,
		Groups: []Group{
			{Name: "Vendedor", Permissions: []string{"ventas.add_notaventa", "ventas.view_notaventa"}},
			{Name: "Reponedor", Permissions: []string{"productos.change_producto"}},
		},
		DirectPermissions: []string{"usuarios.view_cliente"},
	}
}

func TestEffectivePermissions_Union(t *testing.T) {
	perms := staffUser().EffectivePermissions()

	assert.True(t, perms.Has("ventas.add_notaventa"))
	assert.True(t, perms.Has("productos.change_producto"))
	assert.True(t, perms.Has("usuarios.view_cliente"))
	assert.False(t, perms.Has("usuarios.delete_cliente"))
	assert.Len(t, perms, 4)
}

func TestEffectivePermissions_NilProfile(t *testing.T) {
	var u *UserProfile
	perms := u.EffectivePermissions()
	assert.Empty(t, perms)
	assert.False(t, perms.Has("anything"))
}

func TestRequireAny(t *testing.T) {
	perms := staffUser().EffectivePermissions()

	assert.True(t, RequireAny("ventas.add_notaventa", "usuarios.delete_cliente").SatisfiedBy(perms))
	assert.True(t, RequireAny("usuarios.view_cliente").SatisfiedBy(perms))
	assert.False(t, RequireAny("usuarios.delete_cliente", "usuarios.add_user").SatisfiedBy(perms))
}

func TestRequireAll(t *testing.T) {
	perms := staffUser().EffectivePermissions()

	assert.True(t, RequireAll("ventas.add_notaventa", "ventas.view_notaventa").SatisfiedBy(perms))
	assert.False(t, RequireAll("ventas.add_notaventa", "usuarios.delete_cliente").SatisfiedBy(perms))
}

func TestEmptyRequirementAlwaysSatisfied(t *testing.T) {
	assert.True(t, RequireAny().SatisfiedBy(nil))
	assert.True(t, RequireAll().SatisfiedBy(PermissionSet{}))
}

func TestHasGroup(t *testing.T) {
	u := staffUser()
	assert.True(t, u.HasGroup("Vendedor"))
	assert.False(t, u.HasGroup("Administrador"))

	var nilUser *UserProfile
	assert.False(t, nilUser.HasGroup("Vendedor"))
}

func TestCustomerID(t *testing.T) {
	u := staffUser()
	assert.Nil(t, u.CustomerID(), "staff without customer profile")

	u.Customer = &CustomerProfile{ID: 42, Name: "Carlos Rojas"}
	id := u.CustomerID()
	assert.NotNil(t, id)
	assert.Equal(t, int64(42), *id)

	var nilUser *UserProfile
	assert.Nil(t, nilUser.CustomerID())
}
