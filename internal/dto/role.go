package dto

import "github.com/GregMSThompson/sas-financier/internal/models"

type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// MeResponse is returned by GET /me.
type MeResponse struct {
	UID string `json:"uid"`
	models.Capabilities
	Navigation []NavItem `json:"navigation"`
}

type UpdateRoleRequest struct {
	Role models.Role `json:"role"`
}
