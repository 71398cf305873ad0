package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/GregMSThompson/sas-financier/internal/crypto"
	"github.com/GregMSThompson/sas-financier/internal/models"
)

func TestMemberUpdatesLeaveLinkAlone(t *testing.T) {
	uid := "user-1"
	updates := memberUpdates(memberDoc{Nom: "Diallo", UserID: &uid})
	for _, u := range updates {
		if u.Path == "userId" || u.Path == "createdAt" {
			t.Fatalf("update must not write %s", u.Path)
		}
	}
	if len(updates) == 0 {
		t.Fatalf("expected field updates")
	}
}

func TestMemberUpdateKeepsConcurrentLinkWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	s := NewMemberStore(client, crypto.Plain{})
	ctx := context.Background()

	m := &models.Member{
		ID:          uuid.NewString(),
		Identifiant: "SAS-001",
		Nom:         "Diallo",
		Prenom:      "Awa",
		Cursus:      models.PreparatoryYear{},
		Sexe:        models.SexeF,
	}
	if err := s.Create(ctx, m); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// an admin loads the member, then a signup links it before the edit is saved
	stale, err := s.Get(ctx, m.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if err := s.LinkUser(ctx, m.ID, "user-1"); err != nil {
		t.Fatalf("LinkUser returned error: %v", err)
	}
	stale.Prenom = "Aïssatou"
	if err := s.Update(ctx, stale); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, err := s.Get(ctx, m.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.UserID == nil || *got.UserID != "user-1" {
		t.Fatalf("link lost: userId=%v", got.UserID)
	}
	if got.Prenom != "Aïssatou" {
		t.Fatalf("prenom = %q, want Aïssatou", got.Prenom)
	}
}
