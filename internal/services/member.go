package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

type memberMSStore interface {
	Create(ctx context.Context, m *models.Member) error
	Update(ctx context.Context, m *models.Member) error
	Get(ctx context.Context, id string) (*models.Member, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Member, error)
}

type memberService struct {
	members memberMSStore
}

func NewMemberService(members memberMSStore) *memberService {
	return &memberService{members: members}
}

func (s *memberService) List(ctx context.Context, actor models.Actor) ([]*dto.MemberResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, dto.NewMemberResponse(m))
	}
	return out, nil
}

func (s *memberService) Get(ctx context.Context, actor models.Actor, id string) (*dto.MemberResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	m, err := s.members.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewMemberResponse(m), nil
}

func (s *memberService) Create(ctx context.Context, actor models.Actor, req dto.MemberRequest) (*dto.MemberResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	m := &models.Member{ID: uuid.NewString()}
	if err := applyMemberRequest(m, req); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	if err := s.members.Create(ctx, m); err != nil {
		log.Error("failed to create member", "error", err)
		return nil, err
	}
	log.Info("member created", "member_id", m.ID, "cursus", m.Cursus.String())
	return dto.NewMemberResponse(m), nil
}

func (s *memberService) Update(ctx context.Context, actor models.Actor, id string, req dto.MemberRequest) (*dto.MemberResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	m, err := s.members.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyMemberRequest(m, req); err != nil {
		return nil, err
	}
	if err := s.members.Update(ctx, m); err != nil {
		logger.FromContext(ctx).Error("failed to update member", "member_id", id, "error", err)
		return nil, err
	}
	logger.FromContext(ctx).Info("member updated", "member_id", id)
	return dto.NewMemberResponse(m), nil
}

func (s *memberService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.members.Get(ctx, id); err != nil {
		return err
	}
	if err := s.members.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("member deleted", "member_id", id)
	return nil
}

// applyMemberRequest validates req and copies it onto m. The linked account
// and timestamps are left untouched.
func applyMemberRequest(m *models.Member, req dto.MemberRequest) error {
	nom := strings.TrimSpace(req.Nom)
	prenom := strings.TrimSpace(req.Prenom)
	if nom == "" || prenom == "" {
		return errs.NewValidationError("nom and prenom are required")
	}
	identifiant := strings.TrimSpace(req.Identifiant)
	if identifiant == "" {
		return errs.NewValidationError("identifiant is required")
	}

	sexe := models.Sexe(strings.ToUpper(strings.TrimSpace(req.Sexe)))
	if sexe != models.SexeM && sexe != models.SexeF {
		return errs.NewValidationError("sexe must be M or F")
	}

	naissance := strings.TrimSpace(req.DateNaissance)
	if naissance != "" {
		if _, err := time.Parse(time.DateOnly, naissance); err != nil {
			return errs.NewValidationError("dateNaissance must be a YYYY-MM-DD date")
		}
	}

	cursus, err := models.NewCursus(req.Filiere, req.Niveau)
	if err != nil {
		return errs.NewValidationError(err.Error())
	}

	m.Identifiant = identifiant
	m.Nom = nom
	m.Prenom = prenom
	m.DateNaissance = naissance
	m.Cursus = cursus
	m.Sexe = sexe
	m.NumeroDossier = strings.TrimSpace(req.NumeroDossier)
	m.INE = strings.TrimSpace(req.INE)
	return nil
}
