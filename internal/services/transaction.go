package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/helpers"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

const (
	dateLayout      = "2006-01-02"
	defaultTxLimit  = 200
	maxReceiptBytes = 10 << 20
)

var receiptExtensions = map[string]bool{".pdf": true, ".jpg": true, ".jpeg": true, ".png": true}

var suggestedCategories = dto.CategoryOptions{
	Entree: []string{"Cotisation", "Don", "Sponsoring", "Vente", "Autre"},
	Sortie: []string{"Logistique", "Événement", "Frais administratifs", "Matériel", "Autre"},
}

type transactionTSStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Transition(ctx context.Context, id string, mutate func(*models.Transaction) error) (*models.Transaction, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q dto.TransactionQuery) ([]*models.Transaction, error)
}

type receiptTSStore interface {
	Create(ctx context.Context, r *models.Receipt) error
	ListByTransaction(ctx context.Context, txID string) ([]*models.Receipt, error)
	DeleteByTransaction(ctx context.Context, txID string) ([]string, error)
}

type objectStore interface {
	Upload(ctx context.Context, path, contentType string, data []byte, overwrite bool) error
	PublicURL(path string) string
	Remove(ctx context.Context, paths ...string) error
}

type workflowMetrics interface {
	TransactionCreated(txType string)
	TransactionDecided(statut string)
	TransitionRejected(action string)
}

type transactionService struct {
	txs      transactionTSStore
	receipts receiptTSStore
	objects  objectStore
	metrics  workflowMetrics
	now      func() time.Time
}

func NewTransactionService(txs transactionTSStore, receipts receiptTSStore, objects objectStore, metrics workflowMetrics) *transactionService {
	return &transactionService{
		txs:      txs,
		receipts: receipts,
		objects:  objects,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (s *transactionService) Categories() dto.CategoryOptions {
	return suggestedCategories
}

func (s *transactionService) Create(ctx context.Context, actor models.Actor, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	if err := requireTresorier(actor); err != nil {
		return nil, err
	}
	tx, err := buildTransaction(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tx.ID = uuid.NewString()
	tx.Statut = models.StatutEnAttente
	tx.CreatedBy = actor.UID
	tx.ApprouvePar = nil
	tx.CreatedAt = now
	tx.UpdatedAt = now

	log := logger.FromContext(ctx)
	if err := s.txs.Create(ctx, tx); err != nil {
		log.Error("failed to create transaction", "error", err)
		return nil, err
	}
	s.metrics.TransactionCreated(string(tx.Type))
	log.Info("transaction created", "transaction_id", tx.ID, "type", tx.Type, "montant", tx.Montant.String())
	return tx, nil
}

func buildTransaction(req dto.CreateTransactionRequest) (*models.Transaction, error) {
	if !req.Type.Valid() {
		return nil, errs.NewValidationError("type must be entree or sortie")
	}
	categorie := strings.TrimSpace(req.Categorie)
	if categorie == "" {
		return nil, errs.NewValidationError("categorie is required")
	}
	libelle := strings.TrimSpace(req.Libelle)
	if libelle == "" {
		return nil, errs.NewValidationError("libelle is required")
	}
	montant, err := decimal.NewFromString(strings.TrimSpace(req.Montant))
	if err != nil {
		return nil, errs.NewValidationError("montant must be a decimal number")
	}
	if montant.IsNegative() {
		return nil, errs.NewValidationError("montant must not be negative")
	}
	date := strings.TrimSpace(req.DateTransaction)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, errs.NewValidationError("dateTransaction must be a YYYY-MM-DD date")
	}

	return &models.Transaction{
		Type:                req.Type,
		Categorie:           categorie,
		Montant:             montant,
		Libelle:             libelle,
		DateTransaction:     date,
		Matricule:           helpers.OptString(req.Matricule),
		NumeroRecu:          helpers.OptString(req.NumeroRecu),
		ResponsableFonction: helpers.OptString(req.ResponsableFonction),
	}, nil
}

func (s *transactionService) List(ctx context.Context, actor models.Actor, req dto.ListTransactionsRequest) ([]*models.Transaction, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 || limit > defaultTxLimit {
		limit = defaultTxLimit
	}
	return s.txs.List(ctx, dto.TransactionQuery{
		Statut:      req.Statut,
		Type:        req.Type,
		CreatedBy:   req.CreatedBy,
		ApprouvePar: req.ApprouvePar,
		Limit:       limit,
	})
}

func (s *transactionService) Get(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.txs.Get(ctx, id)
}

func (s *transactionService) Approve(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error) {
	return s.decide(ctx, actor, id, ActionApprove)
}

func (s *transactionService) Reject(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error) {
	return s.decide(ctx, actor, id, ActionReject)
}

// decide applies an admin action. The status check and the write happen in
// one store transaction, so a decision already taken by another admin is
// reported as an invalid transition instead of being overwritten.
func (s *transactionService) decide(ctx context.Context, actor models.Actor, id string, action Action) (*models.Transaction, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).With("transaction_id", id, "action", string(action))

	tx, err := s.txs.Transition(ctx, id, func(current *models.Transaction) error {
		next, err := NextStatut(current.Statut, action)
		if err != nil {
			return err
		}
		current.Statut = next
		current.ApprouvePar = helpers.Ptr(actor.UID)
		return nil
	})
	if err != nil {
		var invalid *errs.InvalidTransitionError
		if errors.As(err, &invalid) {
			s.metrics.TransitionRejected(string(action))
			log.Warn("transition refused", "from", invalid.From)
		} else {
			log.Error("failed to apply transition", "error", err)
		}
		return nil, err
	}

	s.metrics.TransactionDecided(string(tx.Statut))
	log.Info("transaction decided", "statut", tx.Statut)
	return tx, nil
}

func (s *transactionService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	log := logger.FromContext(ctx).With("transaction_id", id)

	if _, err := s.txs.Get(ctx, id); err != nil {
		return err
	}

	// receipts are only removed once the transaction is gone
	if err := s.txs.Delete(ctx, id); err != nil {
		log.Error("failed to delete transaction", "error", err)
		return err
	}

	paths, err := s.receipts.DeleteByTransaction(ctx, id)
	if err != nil {
		log.Warn("failed to delete receipt records", "error", err)
	}
	if len(paths) > 0 {
		if err := s.objects.Remove(ctx, paths...); err != nil {
			log.Warn("failed to remove receipt files", "error", err)
		}
	}
	log.Info("transaction deleted")
	return nil
}

// AddReceipt attaches a scanned receipt. Only the treasurer who recorded the
// transaction may attach one.
func (s *transactionService) AddReceipt(ctx context.Context, actor models.Actor, id string, file dto.Upload) (*models.Receipt, error) {
	if err := requireTresorier(actor); err != nil {
		return nil, err
	}
	tx, err := s.txs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.CreatedBy != actor.UID {
		return nil, errs.NewForbiddenError("only the treasurer who created the transaction can attach receipts")
	}

	ext := strings.ToLower(filepath.Ext(file.FileName))
	if !receiptExtensions[ext] {
		return nil, errs.NewValidationError("receipt must be a pdf, jpg, jpeg or png file")
	}
	if len(file.Data) == 0 {
		return nil, errs.NewValidationError("receipt file is empty")
	}
	if len(file.Data) > maxReceiptBytes {
		return nil, errs.NewValidationError("receipt file is too large")
	}

	now := s.now()
	path := fmt.Sprintf("receipts/%s-%d%s", id, now.UnixMilli(), ext)
	if err := s.objects.Upload(ctx, path, file.ContentType, file.Data, false); err != nil {
		return nil, err
	}

	receipt := &models.Receipt{
		ReceiptID:     uuid.NewString(),
		TransactionID: id,
		FileURL:       s.objects.PublicURL(path),
		FileName:      file.FileName,
		ObjectPath:    path,
		CreatedAt:     now,
	}
	if err := s.receipts.Create(ctx, receipt); err != nil {
		if rmErr := s.objects.Remove(ctx, path); rmErr != nil {
			logger.FromContext(ctx).Warn("failed to remove orphaned receipt file", "path", path, "error", rmErr)
		}
		return nil, err
	}

	logger.FromContext(ctx).Info("receipt attached", "transaction_id", id, "receipt_id", receipt.ReceiptID)
	return receipt, nil
}

func (s *transactionService) ListReceipts(ctx context.Context, actor models.Actor, id string) ([]*models.Receipt, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if _, err := s.txs.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.receipts.ListByTransaction(ctx, id)
}
