package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

const minPasswordLength = 6

type userUSStore interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
	DeleteProfile(ctx context.Context, uid string) error
}

type roleUSStore interface {
	SetRole(ctx context.Context, uid string, role models.Role) error
	DeleteRole(ctx context.Context, uid string) error
	ListRoles(ctx context.Context) (map[string]models.Role, error)
}

type memberUSStore interface {
	FindByName(ctx context.Context, nom, prenom string) ([]*models.Member, error)
	GetByUser(ctx context.Context, uid string) (*models.Member, error)
	LinkUser(ctx context.Context, memberID, uid string) error
	UnlinkUser(ctx context.Context, memberID string) error
}

type identityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}

type userService struct {
	profiles userUSStore
	roles    roleUSStore
	members  memberUSStore
	identity identityProvider
}

func NewUserService(profiles userUSStore, roles roleUSStore, members memberUSStore, identity identityProvider) *userService {
	return &userService{
		profiles: profiles,
		roles:    roles,
		members:  members,
		identity: identity,
	}
}

// Signup creates an account for an existing member. The member is matched by
// nom and prenom, ignoring case; a member without an account is preferred
// when several share a name. New accounts get the membre role.
func (s *userService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	email, nom, prenom, err := validateSignup(req)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx).With("email", email)

	candidates, err := s.members.FindByName(ctx, nom, prenom)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errs.NewValidationError("aucun membre ne correspond à ce nom et prénom")
	}
	var target *models.Member
	for _, m := range candidates {
		if m.UserID == nil || *m.UserID == "" {
			target = m
			break
		}
	}
	if target == nil {
		return nil, errs.NewAlreadyExistsError("ce membre possède déjà un compte")
	}

	existing, err := s.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.NewAlreadyExistsError("cet email est déjà utilisé")
	}

	uid, err := s.identity.CreateUser(ctx, email, req.Password, prenom+" "+nom)
	if err != nil {
		log.Error("failed to create account", "error", err)
		return nil, err
	}
	log = log.With("uid", uid)

	now := time.Now()
	profile := &models.Profile{
		UID:       uid,
		Email:     email,
		Nom:       nom,
		Prenom:    prenom,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.provision(ctx, profile, target.ID); err != nil {
		log.Error("failed to provision account, rolling back", "error", err)
		if rbErr := s.identity.DeleteUser(ctx, uid); rbErr != nil {
			log.Error("failed to roll back account", "error", rbErr)
		}
		return nil, err
	}

	log.Info("account created", "member_id", target.ID)
	return &dto.SignupResponse{UID: uid, Email: email, MemberID: target.ID}, nil
}

func (s *userService) provision(ctx context.Context, profile *models.Profile, memberID string) error {
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return err
	}
	if err := s.roles.SetRole(ctx, profile.UID, models.RoleMembre); err != nil {
		return err
	}
	return s.members.LinkUser(ctx, memberID, profile.UID)
}

func validateSignup(req dto.SignupRequest) (email, nom, prenom string, err error) {
	email = strings.ToLower(strings.TrimSpace(req.Email))
	nom = strings.TrimSpace(req.Nom)
	prenom = strings.TrimSpace(req.Prenom)

	if email == "" || nom == "" || prenom == "" || req.Password == "" {
		return "", "", "", errs.NewValidationError("veuillez remplir tous les champs")
	}
	if _, perr := mail.ParseAddress(email); perr != nil {
		return "", "", "", errs.NewValidationError("adresse email invalide")
	}
	if req.Password != req.ConfirmPassword {
		return "", "", "", errs.NewValidationError("les mots de passe ne correspondent pas")
	}
	if len(req.Password) < minPasswordLength {
		return "", "", "", errs.NewValidationError("le mot de passe doit contenir au moins 6 caractères")
	}
	return email, nom, prenom, nil
}

func (s *userService) ListUsers(ctx context.Context, actor models.Actor) ([]*models.UserWithRole, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.UserWithRole, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, &models.UserWithRole{Profile: *p, Role: roles[p.UID]})
	}
	return out, nil
}

func (s *userService) UpdateRole(ctx context.Context, actor models.Actor, uid string, role models.Role) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !role.Valid() {
		return errs.NewValidationError("role must be president, tresorier or membre")
	}
	if uid == actor.UID && actor.IsPresident && role != models.RolePresident {
		return errs.NewForbiddenError("un président ne peut pas modifier son propre rôle")
	}
	if _, err := s.profiles.GetProfile(ctx, uid); err != nil {
		return err
	}
	if err := s.roles.SetRole(ctx, uid, role); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("role updated", "target_uid", uid, "role", role)
	return nil
}

// DeleteUser removes an account with its role and profile and frees the
// member it was linked to.
func (s *userService) DeleteUser(ctx context.Context, actor models.Actor, uid string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if uid == actor.UID {
		return errs.NewForbiddenError("vous ne pouvez pas supprimer votre propre compte")
	}
	log := logger.FromContext(ctx).With("target_uid", uid)

	if _, err := s.profiles.GetProfile(ctx, uid); err != nil {
		var notFound *errs.NotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		log.Warn("deleting account without profile")
	}

	if m, err := s.members.GetByUser(ctx, uid); err != nil {
		return err
	} else if m != nil {
		if err := s.members.UnlinkUser(ctx, m.ID); err != nil {
			return err
		}
	}
	if err := s.roles.DeleteRole(ctx, uid); err != nil {
		return err
	}
	if err := s.profiles.DeleteProfile(ctx, uid); err != nil {
		return err
	}
	if err := s.identity.DeleteUser(ctx, uid); err != nil {
		log.Error("failed to delete identity", "error", err)
		return err
	}

	log.Info("user deleted")
	return nil
}
