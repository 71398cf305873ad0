package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
)

// roleStore keeps one user_roles/{uid} document per account, so an identity
// can never hold two roles.
type roleStore struct {
	client *firestore.Client
}

func NewRoleStore(client *firestore.Client) *roleStore {
	return &roleStore{client: client}
}

func (s *roleStore) collection() *firestore.CollectionRef {
	return s.client.Collection("user_roles")
}

func (s *roleStore) GetRole(ctx context.Context, uid string) (models.Role, error) {
	snap, err := s.collection().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", errs.NewNotFoundError("role not found")
		}
		return "", errs.NewDatabaseError("read", "failed to get role", err)
	}
	var ur models.UserRole
	if err := snap.DataTo(&ur); err != nil {
		return "", errs.NewDatabaseError("read", "failed to parse role data", err)
	}
	return ur.Role, nil
}

func (s *roleStore) SetRole(ctx context.Context, uid string, role models.Role) error {
	_, err := s.collection().Doc(uid).Set(ctx, models.UserRole{
		UserID:    uid,
		Role:      role,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to set role", err)
	}
	return nil
}

func (s *roleStore) DeleteRole(ctx context.Context, uid string) error {
	if _, err := s.collection().Doc(uid).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete role", err)
	}
	return nil
}

func (s *roleStore) ListRoles(ctx context.Context) (map[string]models.Role, error) {
	docs, err := s.collection().Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list roles", err)
	}
	out := make(map[string]models.Role, len(docs))
	for _, d := range docs {
		var ur models.UserRole
		if err := d.DataTo(&ur); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse role data", err)
		}
		out[d.Ref.ID] = ur.Role
	}
	return out, nil
}
