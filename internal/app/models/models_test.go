package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCO2ForEwaste(t *testing.T) {
	assert.InDelta(t, 12.5, CO2ForEwaste(EwasteTypeMobile, 1), 0.001)
	assert.InDelta(t, 90.0, CO2ForEwaste(EwasteTypeLaptop, 2), 0.001)
	assert.InDelta(t, 7.5, CO2ForEwaste(EwasteTypeCharger, 3), 0.001)
	// Unknown types fall back to the generic factor
	assert.InDelta(t, 10.0, CO2ForEwaste("toaster", 1), 0.001)
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleStudent, RoleNGO, RoleMessStaff, RoleAdmin} {
		assert.True(t, r.Valid(), string(r))
	}
	assert.False(t, Role("teacher").Valid())
	assert.False(t, Role("").Valid())
}

func TestRoleRegisterable(t *testing.T) {
	assert.True(t, RoleStudent.Registerable())
	assert.True(t, RoleNGO.Registerable())
	assert.True(t, RoleMessStaff.Registerable())
	assert.False(t, RoleAdmin.Registerable())
	assert.False(t, Role("root").Registerable())
}
