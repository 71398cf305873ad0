package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/helpers"
)

// fakeTransactionStore serialises Transition the way a Firestore transaction does.
type fakeTransactionStore struct {
	mu        sync.Mutex
	records   map[string]*models.Transaction
	created   int
	deleted   []string
	deleteErr error
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{records: map[string]*models.Transaction{}}
}

func (f *fakeTransactionStore) Create(_ context.Context, tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *tx
	f.records[tx.ID] = &cp
	f.created++
	return nil
}

func (f *fakeTransactionStore) Get(_ context.Context, id string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.records[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	cp := *tx
	return &cp, nil
}

func (f *fakeTransactionStore) Transition(_ context.Context, id string, mutate func(*models.Transaction) error) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.records[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	cp := *tx
	if err := mutate(&cp); err != nil {
		return nil, err
	}
	f.records[id] = &cp
	out := cp
	return &out, nil
}

func (f *fakeTransactionStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTransactionStore) List(_ context.Context, q dto.TransactionQuery) ([]*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range f.records {
		if q.Statut != nil && tx.Statut != *q.Statut {
			continue
		}
		if q.Type != nil && tx.Type != *q.Type {
			continue
		}
		if q.DateFrom != nil && tx.DateTransaction < *q.DateFrom {
			continue
		}
		if q.DateTo != nil && tx.DateTransaction > *q.DateTo {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	return out, nil
}

type stubReceiptStore struct {
	created   []*models.Receipt
	paths     []string
	err       error
	purgedFor []string
}

func (s *stubReceiptStore) Create(_ context.Context, r *models.Receipt) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, r)
	return nil
}

func (s *stubReceiptStore) ListByTransaction(_ context.Context, txID string) ([]*models.Receipt, error) {
	var out []*models.Receipt
	for _, r := range s.created {
		if r.TransactionID == txID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubReceiptStore) DeleteByTransaction(_ context.Context, txID string) ([]string, error) {
	s.purgedFor = append(s.purgedFor, txID)
	return s.paths, nil
}

type stubObjectStore struct {
	uploads map[string][]byte
	removed []string
	err     error
}

func (s *stubObjectStore) Upload(_ context.Context, path, _ string, data []byte, _ bool) error {
	if s.err != nil {
		return s.err
	}
	if s.uploads == nil {
		s.uploads = map[string][]byte{}
	}
	s.uploads[path] = data
	return nil
}

func (s *stubObjectStore) PublicURL(path string) string {
	return "https://objects.test/" + path
}

func (s *stubObjectStore) Remove(_ context.Context, paths ...string) error {
	s.removed = append(s.removed, paths...)
	return nil
}

type stubMetrics struct {
	mu       sync.Mutex
	created  int
	decided  map[string]int
	refused  int
	exports  map[string]int
	reloads  int
	requests int
}

func (m *stubMetrics) TransactionCreated(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *stubMetrics) TransactionDecided(statut string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.decided == nil {
		m.decided = map[string]int{}
	}
	m.decided[statut]++
}

func (m *stubMetrics) TransitionRejected(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refused++
}

func (m *stubMetrics) ReportExported(format string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.exports == nil {
		m.exports = map[string]int{}
	}
	m.exports[format]++
}

func (m *stubMetrics) SettingsReloaded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloads++
}

var (
	treasurer = models.Actor{UID: "tres-1", Capabilities: models.CapabilitiesFor(models.RoleTresorier)}
	president = models.Actor{UID: "pres-1", Capabilities: models.CapabilitiesFor(models.RolePresident)}
	member    = models.Actor{UID: "memb-1", Capabilities: models.CapabilitiesFor(models.RoleMembre)}
)

func validRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Type:            models.TypeEntree,
		Categorie:       "Cotisation",
		Montant:         "1500.50",
		Libelle:         "Cotisations de mars",
		DateTransaction: "2024-03-15",
		NumeroRecu:      " R-001 ",
	}
}

func newTestTransactionService() (*transactionService, *fakeTransactionStore, *stubReceiptStore, *stubObjectStore, *stubMetrics) {
	store := newFakeTransactionStore()
	receipts := &stubReceiptStore{}
	objects := &stubObjectStore{}
	metrics := &stubMetrics{}
	svc := NewTransactionService(store, receipts, objects, metrics)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc, store, receipts, objects, metrics
}

func TestTransactionServiceCreate(t *testing.T) {
	svc, store, _, _, metrics := newTestTransactionService()
	ctx := helpers.TestCtx()

	tx, err := svc.Create(ctx, treasurer, validRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if tx.ID == "" {
		t.Fatalf("expected generated id")
	}
	if tx.Statut != models.StatutEnAttente {
		t.Fatalf("statut = %s, want en_attente", tx.Statut)
	}
	if tx.CreatedBy != treasurer.UID || tx.ApprouvePar != nil {
		t.Fatalf("unexpected actors: createdBy=%s approuvePar=%v", tx.CreatedBy, tx.ApprouvePar)
	}
	if tx.Montant.String() != "1500.5" {
		t.Fatalf("montant = %s, want 1500.5", tx.Montant)
	}
	if helpers.Value(tx.NumeroRecu) != "R-001" || tx.Matricule != nil {
		t.Fatalf("optional fields not normalised: %+v", tx)
	}
	if store.created != 1 || metrics.created != 1 {
		t.Fatalf("store created %d, metrics %d, want 1 and 1", store.created, metrics.created)
	}
}

func TestTransactionServiceCreateRequiresTresorier(t *testing.T) {
	svc, store, _, _, _ := newTestTransactionService()
	ctx := helpers.TestCtx()

	for _, actor := range []models.Actor{president, member} {
		_, err := svc.Create(ctx, actor, validRequest())
		var forbidden *errs.ForbiddenError
		if !errors.As(err, &forbidden) {
			t.Fatalf("%s: expected ForbiddenError, got %v", actor.Role, err)
		}
	}
	_, err := svc.Create(ctx, models.Actor{}, validRequest())
	var unauthorized *errs.UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("anonymous: expected UnauthorizedError, got %v", err)
	}
	if store.created != 0 {
		t.Fatalf("store should not be called, got %d creates", store.created)
	}
}

func TestTransactionServiceCreateValidation(t *testing.T) {
	svc, _, _, _, _ := newTestTransactionService()
	ctx := helpers.TestCtx()

	mutations := map[string]func(*dto.CreateTransactionRequest){
		"bad type":       func(r *dto.CreateTransactionRequest) { r.Type = "virement" },
		"no categorie":   func(r *dto.CreateTransactionRequest) { r.Categorie = "  " },
		"no libelle":     func(r *dto.CreateTransactionRequest) { r.Libelle = "" },
		"bad montant":    func(r *dto.CreateTransactionRequest) { r.Montant = "douze" },
		"negative":       func(r *dto.CreateTransactionRequest) { r.Montant = "-1" },
		"bad date":       func(r *dto.CreateTransactionRequest) { r.DateTransaction = "15/03/2024" },
		"impossible day": func(r *dto.CreateTransactionRequest) { r.DateTransaction = "2024-02-30" },
	}
	for name, mutate := range mutations {
		req := validRequest()
		mutate(&req)
		_, err := svc.Create(ctx, treasurer, req)
		var validation *errs.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("%s: expected ValidationError, got %v", name, err)
		}
	}
}

func TestTransactionServiceApproveAndReject(t *testing.T) {
	svc, _, _, _, metrics := newTestTransactionService()
	ctx := helpers.TestCtx()

	a, _ := svc.Create(ctx, treasurer, validRequest())
	b, _ := svc.Create(ctx, treasurer, validRequest())

	approved, err := svc.Approve(ctx, president, a.ID)
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if approved.Statut != models.StatutApprouve || helpers.Value(approved.ApprouvePar) != president.UID {
		t.Fatalf("unexpected approved record: %+v", approved)
	}

	// a treasurer is an admin too
	rejected, err := svc.Reject(ctx, treasurer, b.ID)
	if err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	if rejected.Statut != models.StatutRejete || helpers.Value(rejected.ApprouvePar) != treasurer.UID {
		t.Fatalf("unexpected rejected record: %+v", rejected)
	}

	if metrics.decided["approuve"] != 1 || metrics.decided["rejete"] != 1 {
		t.Fatalf("unexpected decision metrics: %+v", metrics.decided)
	}
}

func TestTransactionServiceTerminalStatesNeverRevert(t *testing.T) {
	svc, store, _, _, metrics := newTestTransactionService()
	ctx := helpers.TestCtx()

	tx, _ := svc.Create(ctx, treasurer, validRequest())
	if _, err := svc.Approve(ctx, president, tx.ID); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}

	for _, action := range []func(context.Context, models.Actor, string) (*models.Transaction, error){svc.Approve, svc.Reject} {
		_, err := action(ctx, treasurer, tx.ID)
		var invalid *errs.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	}

	got, _ := store.Get(ctx, tx.ID)
	if got.Statut != models.StatutApprouve || helpers.Value(got.ApprouvePar) != president.UID {
		t.Fatalf("terminal record changed: %+v", got)
	}
	if metrics.refused != 2 {
		t.Fatalf("refused transitions = %d, want 2", metrics.refused)
	}
}

func TestTransactionServiceDecisionRequiresAdmin(t *testing.T) {
	svc, store, _, _, _ := newTestTransactionService()
	ctx := helpers.TestCtx()

	tx, _ := svc.Create(ctx, treasurer, validRequest())
	_, err := svc.Approve(ctx, member, tx.ID)
	var forbidden *errs.ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
	if err := svc.Delete(ctx, member, tx.ID); !errors.As(err, &forbidden) {
		t.Fatalf("expected ForbiddenError on delete, got %v", err)
	}
	got, _ := store.Get(ctx, tx.ID)
	if got.Statut != models.StatutEnAttente {
		t.Fatalf("statut changed to %s", got.Statut)
	}
}

func TestTransactionServiceApproveUnknown(t *testing.T) {
	svc, _, _, _, _ := newTestTransactionService()
	_, err := svc.Approve(helpers.TestCtx(), president, "missing")
	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

// Two admins decide the same pending transaction at once. Exactly one
// decision is applied; which one wins is left to the store's ordering.
func TestTransactionServiceConcurrentDecisions(t *testing.T) {
	for round := 0; round < 20; round++ {
		svc, store, _, _, _ := newTestTransactionService()
		ctx := helpers.TestCtx()
		tx, _ := svc.Create(ctx, treasurer, validRequest())

		var wg sync.WaitGroup
		results := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, results[0] = svc.Reject(ctx, president, tx.ID)
		}()
		go func() {
			defer wg.Done()
			_, results[1] = svc.Approve(ctx, treasurer, tx.ID)
		}()
		wg.Wait()

		succeeded := 0
		for _, err := range results {
			if err == nil {
				succeeded++
				continue
			}
			var invalid *errs.InvalidTransitionError
			if !errors.As(err, &invalid) {
				t.Fatalf("round %d: unexpected error %v", round, err)
			}
		}
		if succeeded != 1 {
			t.Fatalf("round %d: %d decisions applied, want exactly 1", round, succeeded)
		}

		final, _ := store.Get(ctx, tx.ID)
		if !final.Statut.Terminal() {
			t.Fatalf("round %d: final statut %s is not terminal", round, final.Statut)
		}
		winner := president.UID
		if final.Statut == models.StatutApprouve {
			winner = treasurer.UID
		}
		if helpers.Value(final.ApprouvePar) != winner {
			t.Fatalf("round %d: approuvePar %v does not match the applied decision", round, final.ApprouvePar)
		}
	}
}

func TestTransactionServiceDeleteRemovesReceipts(t *testing.T) {
	svc, store, receipts, objects, _ := newTestTransactionService()
	ctx := helpers.TestCtx()

	tx, _ := svc.Create(ctx, treasurer, validRequest())
	if _, err := svc.Approve(ctx, president, tx.ID); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	receipts.paths = []string{"receipts/a.pdf", "receipts/b.png"}

	if err := svc.Delete(ctx, president, tx.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != tx.ID {
		t.Fatalf("unexpected deletions: %v", store.deleted)
	}
	if strings.Join(objects.removed, ",") != "receipts/a.pdf,receipts/b.png" {
		t.Fatalf("unexpected removed objects: %v", objects.removed)
	}
}

func TestTransactionServiceDeleteFailureKeepsReceipts(t *testing.T) {
	svc, store, receipts, objects, _ := newTestTransactionService()
	ctx := helpers.TestCtx()

	tx, _ := svc.Create(ctx, treasurer, validRequest())
	receipts.paths = []string{"receipts/a.pdf"}
	store.deleteErr = errs.NewDatabaseError("delete", "firestore unavailable", errors.New("unavailable"))

	err := svc.Delete(ctx, president, tx.ID)
	var dbErr *errs.DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
	if got, err := store.Get(ctx, tx.ID); err != nil || got.Statut != models.StatutEnAttente {
		t.Fatalf("transaction should survive: %v, %v", got, err)
	}
	if len(receipts.purgedFor) != 0 {
		t.Fatalf("receipt records purged for %v", receipts.purgedFor)
	}
	if len(objects.removed) != 0 {
		t.Fatalf("receipt files removed: %v", objects.removed)
	}
}

func TestTransactionServiceAddReceipt(t *testing.T) {
	svc, _, receipts, objects, _ := newTestTransactionService()
	ctx := helpers.TestCtx()
	tx, _ := svc.Create(ctx, treasurer, validRequest())

	upload := dto.Upload{FileName: "Recu Mars.PDF", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}
	receipt, err := svc.AddReceipt(ctx, treasurer, tx.ID, upload)
	if err != nil {
		t.Fatalf("AddReceipt returned error: %v", err)
	}

	wantPath := "receipts/" + tx.ID + "-1710496800000.pdf"
	if receipt.ObjectPath != wantPath {
		t.Fatalf("object path = %s, want %s", receipt.ObjectPath, wantPath)
	}
	if receipt.FileURL != "https://objects.test/"+wantPath {
		t.Fatalf("unexpected url %s", receipt.FileURL)
	}
	if _, ok := objects.uploads[wantPath]; !ok {
		t.Fatalf("object not uploaded: %v", objects.uploads)
	}
	if len(receipts.created) != 1 {
		t.Fatalf("receipt records = %d, want 1", len(receipts.created))
	}

	other := models.Actor{UID: "tres-2", Capabilities: models.CapabilitiesFor(models.RoleTresorier)}
	_, err = svc.AddReceipt(ctx, other, tx.ID, upload)
	var forbidden *errs.ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ForbiddenError for another treasurer, got %v", err)
	}

	upload.FileName = "notes.docx"
	_, err = svc.AddReceipt(ctx, treasurer, tx.ID, upload)
	var validation *errs.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for docx, got %v", err)
	}
}

func TestTransactionServiceAddReceiptCleansUpOnRecordFailure(t *testing.T) {
	svc, _, receipts, objects, _ := newTestTransactionService()
	ctx := helpers.TestCtx()
	tx, _ := svc.Create(ctx, treasurer, validRequest())
	receipts.err = errs.NewDatabaseError("create", "failed to save receipt", errors.New("boom"))

	_, err := svc.AddReceipt(ctx, treasurer, tx.ID, dto.Upload{FileName: "r.png", ContentType: "image/png", Data: []byte{1}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(objects.removed) != 1 {
		t.Fatalf("uploaded object was not removed: %v", objects.removed)
	}
}
