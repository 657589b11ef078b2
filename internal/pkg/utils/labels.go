package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/greencampus/greencampus/internal/app/models"
)

var titleCaser = cases.Title(language.English)

// RoleLabel returns the display label for a role.
func RoleLabel(role models.Role) string {
	switch role {
	case models.RoleNGO:
		return "NGO"
	case models.RoleMessStaff:
		return "Mess Staff"
	default:
		return titleCaser.String(string(role))
	}
}

// StatusLabel converts a snake_case status into a display label.
func StatusLabel(status string) string {
	return titleCaser.String(strings.ReplaceAll(status, "_", " "))
}
