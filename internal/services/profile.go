package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

const (
	recentTransactionsLimit = 10
	maxImageBytes           = 5 << 20
)

type profilePSStore interface {
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
	SetProfilePhoto(ctx context.Context, uid, url, path string) error
}

type transactionPSStore interface {
	ListInvolving(ctx context.Context, uid string, limit int) ([]*models.Transaction, error)
}

type memberPSStore interface {
	GetByUser(ctx context.Context, uid string) (*models.Member, error)
}

type profileService struct {
	profiles profilePSStore
	txs      transactionPSStore
	members  memberPSStore
	objects  objectStore
	now      func() time.Time
}

func NewProfileService(profiles profilePSStore, txs transactionPSStore, members memberPSStore, objects objectStore) *profileService {
	return &profileService{
		profiles: profiles,
		txs:      txs,
		members:  members,
		objects:  objects,
		now:      time.Now,
	}
}

// Get returns the caller's profile page. Totals only count approved
// transactions the caller created or decided.
func (s *profileService) Get(ctx context.Context, actor models.Actor) (*dto.ProfilePage, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetProfile(ctx, actor.UID)
	if err != nil {
		return nil, err
	}
	member, err := s.members.GetByUser(ctx, actor.UID)
	if err != nil {
		return nil, err
	}
	txs, err := s.txs.ListInvolving(ctx, actor.UID, 0)
	if err != nil {
		return nil, err
	}

	filter := ApprovedOnly()
	filter.InvolvingUID = actor.UID
	agg := AggregateTransactions(txs, filter)

	created := 0
	for _, tx := range txs {
		if tx.CreatedBy == actor.UID {
			created++
		}
	}

	recent := txs
	if len(recent) > recentTransactionsLimit {
		recent = recent[:recentTransactionsLimit]
	}
	if recent == nil {
		recent = []*models.Transaction{}
	}

	return &dto.ProfilePage{
		Profile:            profile,
		Role:               actor.Role,
		Member:             dto.NewMemberResponse(member),
		RecentTransactions: recent,
		Stats: dto.ProfileStats{
			TransactionsCreees: created,
			TotalEntrees:       agg.Entrees,
			TotalSorties:       agg.Sorties,
		},
	}, nil
}

func (s *profileService) UploadPhoto(ctx context.Context, actor models.Actor, file dto.Upload) (*models.Profile, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	ext, err := validateImage(file)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetProfile(ctx, actor.UID)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("profile-photos/%s-%d%s", actor.UID, s.now().UnixMilli(), ext)
	if err := s.objects.Upload(ctx, path, file.ContentType, file.Data, true); err != nil {
		return nil, err
	}
	url := s.objects.PublicURL(path)
	if err := s.profiles.SetProfilePhoto(ctx, actor.UID, url, path); err != nil {
		_ = s.objects.Remove(ctx, path)
		return nil, err
	}

	if old := profile.PhotoPath; old != "" && old != path {
		if err := s.objects.Remove(ctx, old); err != nil {
			logger.FromContext(ctx).Warn("failed to remove previous profile photo", "path", old, "error", err)
		}
	}

	profile.ProfilePhotoURL = url
	profile.PhotoPath = path
	logger.FromContext(ctx).Info("profile photo updated")
	return profile, nil
}

func (s *profileService) DeletePhoto(ctx context.Context, actor models.Actor) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	profile, err := s.profiles.GetProfile(ctx, actor.UID)
	if err != nil {
		return err
	}
	if profile.PhotoPath == "" && profile.ProfilePhotoURL == "" {
		return nil
	}
	if err := s.profiles.SetProfilePhoto(ctx, actor.UID, "", ""); err != nil {
		return err
	}
	if profile.PhotoPath != "" {
		if err := s.objects.Remove(ctx, profile.PhotoPath); err != nil {
			logger.FromContext(ctx).Warn("failed to remove profile photo", "path", profile.PhotoPath, "error", err)
		}
	}
	return nil
}

// validateImage accepts image/* uploads up to 5MB and returns the lower-cased
// file extension to store them under.
func validateImage(file dto.Upload) (string, error) {
	if !strings.HasPrefix(strings.ToLower(file.ContentType), "image/") {
		return "", errs.NewValidationError("le fichier doit être une image")
	}
	if len(file.Data) == 0 {
		return "", errs.NewValidationError("le fichier est vide")
	}
	if len(file.Data) > maxImageBytes {
		return "", errs.NewValidationError("l'image ne doit pas dépasser 5MB")
	}
	ext := strings.ToLower(filepath.Ext(file.FileName))
	if ext == "" {
		ext = "." + strings.TrimPrefix(strings.ToLower(file.ContentType), "image/")
	}
	return ext, nil
}
