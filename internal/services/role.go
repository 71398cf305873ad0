package services

import (
	"context"
	"errors"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

type roleRSStore interface {
	GetRole(ctx context.Context, uid string) (models.Role, error)
}

type roleService struct {
	roles roleRSStore
}

func NewRoleService(roles roleRSStore) *roleService {
	return &roleService{roles: roles}
}

// Resolve maps an authenticated uid to its capabilities. A missing role
// record or a failed lookup both yield the zero Capabilities; lookup
// failures are only logged.
func (s *roleService) Resolve(ctx context.Context, uid string) models.Capabilities {
	if uid == "" {
		return models.Capabilities{}
	}
	role, err := s.roles.GetRole(ctx, uid)
	if err != nil {
		var notFound *errs.NotFoundError
		if !errors.As(err, &notFound) {
			logger.FromContext(ctx).Warn("role lookup failed, treating caller as roleless", "error", err)
		}
		return models.Capabilities{}
	}
	return models.CapabilitiesFor(role)
}

var (
	commonNav = []dto.NavItem{
		{Label: "Dashboard", Path: "/dashboard"},
		{Label: "Transactions", Path: "/transactions"},
		{Label: "Communauté", Path: "/communaute"},
		{Label: "Profil", Path: "/profil"},
	}
	adminNav = []dto.NavItem{
		{Label: "Membres", Path: "/membres"},
		{Label: "Rapports", Path: "/rapports"},
		{Label: "Paramétrage", Path: "/parametrage"},
	}
)

func Navigation(c models.Capabilities) []dto.NavItem {
	nav := append([]dto.NavItem{}, commonNav...)
	if c.IsAdmin {
		nav = append(nav, adminNav...)
	}
	return nav
}

func (s *roleService) Me(actor models.Actor) (*dto.MeResponse, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		UID:          actor.UID,
		Capabilities: actor.Capabilities,
		Navigation:   Navigation(actor.Capabilities),
	}, nil
}
