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

type userStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{
		Client:     client,
		Collection: client.Collection("profiles"),
	}
}

func (us *userStore) CreateProfile(ctx context.Context, p *models.Profile) error {
	_, err := us.Collection.Doc(p.UID).Create(ctx, p)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("profile already exists")
		}
		return errs.NewDatabaseError("create", "failed to create profile", err)
	}
	return nil
}

func (us *userStore) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	var p models.Profile

	doc, err := us.Collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("profile not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get profile", err)
	}
	if err := doc.DataTo(&p); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse profile data", err)
	}

	return &p, nil
}

func (us *userStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	docs, err := us.Collection.Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to look up profile by email", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	var p models.Profile
	if err := docs[0].DataTo(&p); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse profile data", err)
	}
	return &p, nil
}

func (us *userStore) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	docs, err := us.Collection.OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list profiles", err)
	}
	out := make([]*models.Profile, 0, len(docs))
	for _, d := range docs {
		var p models.Profile
		if err := d.DataTo(&p); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse profile data", err)
		}
		out = append(out, &p)
	}
	return out, nil
}

func (us *userStore) SetProfilePhoto(ctx context.Context, uid, url, path string) error {
	_, err := us.Collection.Doc(uid).Update(ctx, []firestore.Update{
		{Path: "profilePhotoUrl", Value: url},
		{Path: "photoPath", Value: path},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("profile not found")
		}
		return errs.NewDatabaseError("update", "failed to update profile photo", err)
	}
	return nil
}

func (us *userStore) DeleteProfile(ctx context.Context, uid string) error {
	if _, err := us.Collection.Doc(uid).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete profile", err)
	}
	return nil
}

func (us *userStore) CountProfiles(ctx context.Context) (int, error) {
	res, err := us.Collection.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to count profiles", err)
	}
	return aggregationCount(res["all"])
}
