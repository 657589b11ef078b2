package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greencampus/greencampus/internal/app/models"
)

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "NGO", RoleLabel(models.RoleNGO))
	assert.Equal(t, "Mess Staff", RoleLabel(models.RoleMessStaff))
	assert.Equal(t, "Student", RoleLabel(models.RoleStudent))
	assert.Equal(t, "Admin", RoleLabel(models.RoleAdmin))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Available", StatusLabel("available"))
	assert.Equal(t, "Already Claimed", StatusLabel("already_claimed"))
}
