package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
)

type settingsStore struct {
	client *firestore.Client
}

func NewSettingsStore(client *firestore.Client) *settingsStore {
	return &settingsStore{client: client}
}

func (s *settingsStore) collection() *firestore.CollectionRef {
	return s.client.Collection("app_settings")
}

func (s *settingsStore) All(ctx context.Context) ([]models.Setting, error) {
	docs, err := s.collection().Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read app settings", err)
	}
	return decodeSettings(docs)
}

// Upsert writes every key in one batch so readers never observe a half-applied change.
func (s *settingsStore) Upsert(ctx context.Context, settings ...models.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	batch := s.client.Batch()
	for _, st := range settings {
		batch.Set(s.collection().Doc(st.Key), st)
	}
	if _, err := batch.Commit(ctx); err != nil {
		return errs.NewDatabaseError("update", "failed to save app settings", err)
	}
	return nil
}

// Watch calls onChange with the full settings set on start and after every
// change to the collection. It blocks until ctx is cancelled.
func (s *settingsStore) Watch(ctx context.Context, onChange func([]models.Setting)) error {
	it := s.collection().Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled || ctx.Err() != nil {
				return nil
			}
			return errs.NewDatabaseError("watch", "app settings subscription failed", err)
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			return errs.NewDatabaseError("watch", "failed to read app settings snapshot", err)
		}
		settings, err := decodeSettings(docs)
		if err != nil {
			return err
		}
		onChange(settings)
	}
}

func decodeSettings(docs []*firestore.DocumentSnapshot) ([]models.Setting, error) {
	out := make([]models.Setting, 0, len(docs))
	for _, d := range docs {
		var st models.Setting
		if err := d.DataTo(&st); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse app setting", err)
		}
		if st.Key == "" {
			st.Key = d.Ref.ID
		}
		out = append(out, st)
	}
	return out, nil
}
