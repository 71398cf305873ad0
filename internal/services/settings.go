package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

const (
	maxAppNameLength = 80
	watchRetryMin    = time.Second
	watchRetryMax    = time.Minute
)

type settingsSSStore interface {
	All(ctx context.Context) ([]models.Setting, error)
	Upsert(ctx context.Context, settings ...models.Setting) error
	Watch(ctx context.Context, onChange func([]models.Setting)) error
}

type settingsMetrics interface {
	SettingsReloaded()
}

// settingsService holds the process-wide app settings. Readers always see a
// complete value: the defaults until the first load, then the latest
// snapshot of app_settings.
type settingsService struct {
	store   settingsSSStore
	objects objectStore
	metrics settingsMetrics
	now     func() time.Time
	retry   time.Duration
	after   func(time.Duration) <-chan time.Time

	mu      sync.RWMutex
	current models.AppSettings
}

func NewSettingsService(store settingsSSStore, objects objectStore, metrics settingsMetrics) *settingsService {
	return &settingsService{
		store:   store,
		objects: objects,
		metrics: metrics,
		now:     time.Now,
		retry:   watchRetryMin,
		after:   time.After,
		current: models.DefaultAppSettings(),
	}
}

func (s *settingsService) Current() models.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// apply replaces the current value. Applying the same snapshot twice is a no-op.
func (s *settingsService) apply(settings []models.Setting) {
	next := models.AppSettingsFrom(settings)
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	s.metrics.SettingsReloaded()
}

func (s *settingsService) Load(ctx context.Context) error {
	settings, err := s.store.All(ctx)
	if err != nil {
		return err
	}
	s.apply(settings)
	return nil
}

// Watch reloads the settings on every change notification until ctx is
// cancelled. A broken subscription is re-established with backoff; the
// backoff restarts from the minimum once a subscription delivered a snapshot.
func (s *settingsService) Watch(ctx context.Context) {
	log := logger.FromContext(ctx)
	backoff := s.retry
	for {
		delivered := false
		err := s.store.Watch(ctx, func(settings []models.Setting) {
			delivered = true
			s.apply(settings)
		})
		if ctx.Err() != nil {
			return
		}
		if delivered {
			backoff = s.retry
		}
		if err != nil {
			log.Warn("settings subscription lost, retrying", "error", err, "backoff", backoff.String())
		}
		select {
		case <-ctx.Done():
			return
		case <-s.after(backoff):
		}
		backoff = min(backoff*2, watchRetryMax)
	}
}

func (s *settingsService) Update(ctx context.Context, actor models.Actor, req dto.UpdateSettingsRequest) (models.AppSettings, error) {
	if err := requireAdmin(actor); err != nil {
		return models.AppSettings{}, err
	}
	name := strings.TrimSpace(req.AppName)
	if name == "" {
		return models.AppSettings{}, errs.NewValidationError("le nom de l'application est requis")
	}
	if len([]rune(name)) > maxAppNameLength {
		return models.AppSettings{}, errs.NewValidationError("le nom de l'application est trop long")
	}

	if err := s.store.Upsert(ctx, models.Setting{Key: models.SettingAppName, Value: name}); err != nil {
		return models.AppSettings{}, err
	}
	if err := s.Load(ctx); err != nil {
		return models.AppSettings{}, err
	}
	logger.FromContext(ctx).Info("app name updated", "app_name", name)
	return s.Current(), nil
}

func (s *settingsService) UploadLogo(ctx context.Context, actor models.Actor, file dto.Upload) (models.AppSettings, error) {
	if err := requireAdmin(actor); err != nil {
		return models.AppSettings{}, err
	}
	ext, err := validateImage(file)
	if err != nil {
		return models.AppSettings{}, err
	}

	old := s.Current().LogoPath()
	path := fmt.Sprintf("app-logos/logo-%d%s", s.now().UnixMilli(), ext)
	if err := s.objects.Upload(ctx, path, file.ContentType, file.Data, true); err != nil {
		return models.AppSettings{}, err
	}
	err = s.store.Upsert(ctx,
		models.Setting{Key: models.SettingAppLogoURL, Value: s.objects.PublicURL(path)},
		models.Setting{Key: models.SettingAppLogoPath, Value: path},
	)
	if err != nil {
		_ = s.objects.Remove(ctx, path)
		return models.AppSettings{}, err
	}
	if old != "" && old != path {
		if err := s.objects.Remove(ctx, old); err != nil {
			logger.FromContext(ctx).Warn("failed to remove previous logo", "path", old, "error", err)
		}
	}
	if err := s.Load(ctx); err != nil {
		return models.AppSettings{}, err
	}
	logger.FromContext(ctx).Info("app logo updated", "path", path)
	return s.Current(), nil
}

func (s *settingsService) DeleteLogo(ctx context.Context, actor models.Actor) (models.AppSettings, error) {
	if err := requireAdmin(actor); err != nil {
		return models.AppSettings{}, err
	}
	old := s.Current().LogoPath()
	err := s.store.Upsert(ctx,
		models.Setting{Key: models.SettingAppLogoURL, Value: ""},
		models.Setting{Key: models.SettingAppLogoPath, Value: ""},
	)
	if err != nil {
		return models.AppSettings{}, err
	}
	if old != "" {
		if err := s.objects.Remove(ctx, old); err != nil {
			logger.FromContext(ctx).Warn("failed to remove logo", "path", old, "error", err)
		}
	}
	if err := s.Load(ctx); err != nil {
		return models.AppSettings{}, err
	}
	return s.Current(), nil
}
