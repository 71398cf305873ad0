package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/helpers"
)

// fakeSettingsStore pushes every Upsert to active watchers, like a Firestore
// snapshot listener.
type fakeSettingsStore struct {
	mu       sync.Mutex
	values   map[string]string
	watchers []chan []models.Setting
	watchErr error
	watches  int
	// drops makes the next Watch calls deliver one snapshot and then fail.
	drops int
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{values: map[string]string{}}
}

func (f *fakeSettingsStore) snapshot() []models.Setting {
	out := make([]models.Setting, 0, len(f.values))
	for k, v := range f.values {
		out = append(out, models.Setting{Key: k, Value: v})
	}
	return out
}

func (f *fakeSettingsStore) All(_ context.Context) ([]models.Setting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(), nil
}

func (f *fakeSettingsStore) Upsert(_ context.Context, settings ...models.Setting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range settings {
		f.values[s.Key] = s.Value
	}
	snap := f.snapshot()
	for _, w := range f.watchers {
		w <- snap
	}
	return nil
}

func (f *fakeSettingsStore) Watch(ctx context.Context, onChange func([]models.Setting)) error {
	f.mu.Lock()
	f.watches++
	if f.watchErr != nil {
		err := f.watchErr
		f.watchErr = nil
		f.mu.Unlock()
		return err
	}
	if f.drops > 0 {
		f.drops--
		snap := f.snapshot()
		f.mu.Unlock()
		onChange(snap)
		return errs.NewDatabaseError("watch", "app settings subscription failed", errors.New("stream reset"))
	}
	ch := make(chan []models.Setting, 16)
	f.watchers = append(f.watchers, ch)
	ch <- f.snapshot()
	f.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-ch:
			onChange(snap)
		}
	}
}

func newTestSettingsService() (*settingsService, *fakeSettingsStore, *stubObjectStore, *stubMetrics) {
	store := newFakeSettingsStore()
	objects := &stubObjectStore{}
	metrics := &stubMetrics{}
	svc := NewSettingsService(store, objects, metrics)
	svc.now = func() time.Time { return time.UnixMilli(1712000000000) }
	svc.retry = 10 * time.Millisecond
	return svc, store, objects, metrics
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSettingsServiceDefaults(t *testing.T) {
	svc, _, _, _ := newTestSettingsService()
	got := svc.Current()
	if got.AppName != models.DefaultAppName || got.AppLogoURL != "" {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if err := svc.Load(helpers.TestCtx()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if svc.Current().AppName != models.DefaultAppName {
		t.Fatalf("empty store should keep the default name")
	}
}

func TestSettingsServiceReloadsOnNotify(t *testing.T) {
	svc, store, _, _ := newTestSettingsService()
	ctx, cancel := context.WithCancel(helpers.TestCtx())
	defer cancel()

	done := make(chan struct{})
	go func() {
		svc.Watch(ctx)
		close(done)
	}()
	waitFor(t, "subscription", func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.watchers) == 1
	})

	// written by another instance, not through this service
	if err := store.Upsert(ctx, models.Setting{Key: models.SettingAppName, Value: "Amicale SAS"}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	waitFor(t, "reload", func() bool { return svc.Current().AppName == "Amicale SAS" })

	// duplicate notification
	if err := store.Upsert(ctx, models.Setting{Key: models.SettingAppName, Value: "Amicale SAS"}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if svc.Current().AppName != "Amicale SAS" {
		t.Fatalf("duplicate notification changed the value")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Watch did not stop after cancel")
	}
}

func TestSettingsServiceWatchRetries(t *testing.T) {
	svc, store, _, metrics := newTestSettingsService()
	store.watchErr = errs.NewDatabaseError("watch", "app settings subscription failed", errors.New("unavailable"))
	ctx, cancel := context.WithCancel(helpers.TestCtx())
	defer cancel()

	go svc.Watch(ctx)
	waitFor(t, "resubscription", func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.watches >= 2 && len(store.watchers) == 1
	})
	waitFor(t, "initial snapshot", func() bool {
		metrics.mu.Lock()
		defer metrics.mu.Unlock()
		return metrics.reloads >= 1
	})
}

func TestSettingsServiceWatchBackoffResetsAfterDelivery(t *testing.T) {
	svc, store, _, _ := newTestSettingsService()
	store.watchErr = errs.NewDatabaseError("watch", "app settings subscription failed", errors.New("unavailable"))
	store.drops = 3

	var mu sync.Mutex
	var waits []time.Duration
	svc.after = func(d time.Duration) <-chan time.Time {
		mu.Lock()
		waits = append(waits, d)
		mu.Unlock()
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}

	ctx, cancel := context.WithCancel(helpers.TestCtx())
	defer cancel()
	go svc.Watch(ctx)

	waitFor(t, "steady subscription", func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.watchers) == 1
	})

	mu.Lock()
	defer mu.Unlock()
	// one failure without a snapshot, then three healthy subscriptions that dropped
	if len(waits) != 4 {
		t.Fatalf("waits = %v, want 4 entries", waits)
	}
	if waits[0] != svc.retry {
		t.Fatalf("first wait = %s, want %s", waits[0], svc.retry)
	}
	for i, d := range waits[1:] {
		if d != svc.retry {
			t.Fatalf("wait %d after a delivered snapshot = %s, want %s", i+1, d, svc.retry)
		}
	}
}

func TestSettingsServiceUpdate(t *testing.T) {
	svc, _, _, _ := newTestSettingsService()
	ctx := helpers.TestCtx()

	got, err := svc.Update(ctx, president, dto.UpdateSettingsRequest{AppName: "  Club Finances "})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.AppName != "Club Finances" || svc.Current().AppName != "Club Finances" {
		t.Fatalf("name not applied: %+v", got)
	}

	var forbidden *errs.ForbiddenError
	if _, err := svc.Update(ctx, member, dto.UpdateSettingsRequest{AppName: "x"}); !errors.As(err, &forbidden) {
		t.Fatalf("membre: expected ForbiddenError, got %v", err)
	}
	var validation *errs.ValidationError
	if _, err := svc.Update(ctx, president, dto.UpdateSettingsRequest{AppName: " "}); !errors.As(err, &validation) {
		t.Fatalf("blank: expected ValidationError, got %v", err)
	}
}

func TestSettingsServiceLogoLifecycle(t *testing.T) {
	svc, store, objects, _ := newTestSettingsService()
	ctx := helpers.TestCtx()
	store.values[models.SettingAppLogoPath] = "app-logos/old.png"
	store.values[models.SettingAppLogoURL] = "https://objects.test/app-logos/old.png"
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	got, err := svc.UploadLogo(ctx, treasurer, dto.Upload{FileName: "logo.svg", ContentType: "image/svg+xml", Data: []byte("<svg/>")})
	if err != nil {
		t.Fatalf("UploadLogo returned error: %v", err)
	}
	if got.AppLogoURL != "https://objects.test/app-logos/logo-1712000000000.svg" {
		t.Fatalf("unexpected logo url %s", got.AppLogoURL)
	}
	if len(objects.removed) != 1 || objects.removed[0] != "app-logos/old.png" {
		t.Fatalf("old logo not removed: %v", objects.removed)
	}

	got, err = svc.DeleteLogo(ctx, treasurer)
	if err != nil {
		t.Fatalf("DeleteLogo returned error: %v", err)
	}
	if got.AppLogoURL != "" || got.LogoPath() != "" {
		t.Fatalf("logo not cleared: %+v", got)
	}
	if objects.removed[len(objects.removed)-1] != "app-logos/logo-1712000000000.svg" {
		t.Fatalf("current logo not removed: %v", objects.removed)
	}
}
