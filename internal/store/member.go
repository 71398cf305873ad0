package store

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
)

type fieldCipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type memberDoc struct {
	ID            string    `firestore:"id"`
	Identifiant   string    `firestore:"identifiant"`
	Nom           string    `firestore:"nom"`
	Prenom        string    `firestore:"prenom"`
	NomKey        string    `firestore:"nomKey"`
	PrenomKey     string    `firestore:"prenomKey"`
	DateNaissance string    `firestore:"dateNaissance"`
	Filiere       string    `firestore:"filiere"`
	Sexe          string    `firestore:"sexe"`
	NumeroDossier string    `firestore:"numeroDossier"`
	INE           string    `firestore:"ine"`
	UserID        *string   `firestore:"userId"`
	CreatedAt     time.Time `firestore:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

type memberStore struct {
	client *firestore.Client
	cipher fieldCipher
}

func NewMemberStore(client *firestore.Client, cipher fieldCipher) *memberStore {
	return &memberStore{client: client, cipher: cipher}
}

func (s *memberStore) collection() *firestore.CollectionRef {
	return s.client.Collection("membres")
}

func nameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *memberStore) encode(ctx context.Context, m *models.Member) (memberDoc, error) {
	dossier, err := s.cipher.Encrypt(ctx, m.NumeroDossier)
	if err != nil {
		return memberDoc{}, err
	}
	ine, err := s.cipher.Encrypt(ctx, m.INE)
	if err != nil {
		return memberDoc{}, err
	}
	cursus := m.Cursus
	if cursus == nil {
		cursus = models.PreparatoryYear{}
	}
	return memberDoc{
		ID:            m.ID,
		Identifiant:   m.Identifiant,
		Nom:           m.Nom,
		Prenom:        m.Prenom,
		NomKey:        nameKey(m.Nom),
		PrenomKey:     nameKey(m.Prenom),
		DateNaissance: m.DateNaissance,
		Filiere:       cursus.String(),
		Sexe:          string(m.Sexe),
		NumeroDossier: dossier,
		INE:           ine,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

func (s *memberStore) decode(ctx context.Context, snap *firestore.DocumentSnapshot) (*models.Member, error) {
	var d memberDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse member data", err)
	}
	dossier, err := s.cipher.Decrypt(ctx, d.NumeroDossier)
	if err != nil {
		return nil, err
	}
	ine, err := s.cipher.Decrypt(ctx, d.INE)
	if err != nil {
		return nil, err
	}
	return &models.Member{
		ID:            d.ID,
		Identifiant:   d.Identifiant,
		Nom:           d.Nom,
		Prenom:        d.Prenom,
		DateNaissance: d.DateNaissance,
		Cursus:        models.ParseCursus(d.Filiere),
		Sexe:          models.Sexe(d.Sexe),
		NumeroDossier: dossier,
		INE:           ine,
		UserID:        d.UserID,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

func (s *memberStore) Create(ctx context.Context, m *models.Member) error {
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	doc, err := s.encode(ctx, m)
	if err != nil {
		return err
	}
	if _, err := s.collection().Doc(m.ID).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("member already exists")
		}
		return errs.NewDatabaseError("create", "failed to create member", err)
	}
	return nil
}

func (s *memberStore) Update(ctx context.Context, m *models.Member) error {
	m.UpdatedAt = time.Now()
	doc, err := s.encode(ctx, m)
	if err != nil {
		return err
	}
	if _, err := s.collection().Doc(m.ID).Update(ctx, memberUpdates(doc)); err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("member not found")
		}
		return errs.NewDatabaseError("update", "failed to update member", err)
	}
	return nil
}

// memberUpdates lists the fields an admin edit may change. userId and
// createdAt are left out so a concurrent LinkUser is never overwritten.
func memberUpdates(doc memberDoc) []firestore.Update {
	return []firestore.Update{
		{Path: "identifiant", Value: doc.Identifiant},
		{Path: "nom", Value: doc.Nom},
		{Path: "prenom", Value: doc.Prenom},
		{Path: "nomKey", Value: doc.NomKey},
		{Path: "prenomKey", Value: doc.PrenomKey},
		{Path: "dateNaissance", Value: doc.DateNaissance},
		{Path: "filiere", Value: doc.Filiere},
		{Path: "sexe", Value: doc.Sexe},
		{Path: "numeroDossier", Value: doc.NumeroDossier},
		{Path: "ine", Value: doc.INE},
		{Path: "updatedAt", Value: doc.UpdatedAt},
	}
}

func (s *memberStore) Get(ctx context.Context, id string) (*models.Member, error) {
	snap, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("member not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get member", err)
	}
	return s.decode(ctx, snap)
}

func (s *memberStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection().Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete member", err)
	}
	return nil
}

func (s *memberStore) List(ctx context.Context) ([]*models.Member, error) {
	return s.collect(ctx, s.collection().OrderBy("createdAt", firestore.Desc))
}

// FindByName matches nom and prenom case-insensitively.
func (s *memberStore) FindByName(ctx context.Context, nom, prenom string) ([]*models.Member, error) {
	q := s.collection().Where("nomKey", "==", nameKey(nom)).Where("prenomKey", "==", nameKey(prenom))
	return s.collect(ctx, q)
}

// GetByUser returns the member linked to an account, or nil when there is none.
func (s *memberStore) GetByUser(ctx context.Context, uid string) (*models.Member, error) {
	members, err := s.collect(ctx, s.collection().Where("userId", "==", uid).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	return members[0], nil
}

func (s *memberStore) LinkUser(ctx context.Context, memberID, uid string) error {
	_, err := s.collection().Doc(memberID).Update(ctx, []firestore.Update{
		{Path: "userId", Value: uid},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("member not found")
		}
		return errs.NewDatabaseError("update", "failed to link member to account", err)
	}
	return nil
}

// UnlinkUser clears the account link, e.g. after the account was deleted.
func (s *memberStore) UnlinkUser(ctx context.Context, memberID string) error {
	_, err := s.collection().Doc(memberID).Update(ctx, []firestore.Update{
		{Path: "userId", Value: nil},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil && status.Code(err) != codes.NotFound {
		return errs.NewDatabaseError("update", "failed to unlink member account", err)
	}
	return nil
}

func (s *memberStore) Count(ctx context.Context) (int, error) {
	res, err := s.collection().NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to count members", err)
	}
	return aggregationCount(res["all"])
}

func (s *memberStore) collect(ctx context.Context, q firestore.Query) ([]*models.Member, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*models.Member
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list members", err)
		}
		m, err := s.decode(ctx, snap)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
