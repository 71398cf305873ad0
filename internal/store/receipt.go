package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
)

type receiptStore struct {
	client *firestore.Client
}

func NewReceiptStore(client *firestore.Client) *receiptStore {
	return &receiptStore{client: client}
}

func (s *receiptStore) collection() *firestore.CollectionRef {
	return s.client.Collection("receipts")
}

func (s *receiptStore) Create(ctx context.Context, r *models.Receipt) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if _, err := s.collection().Doc(r.ReceiptID).Set(ctx, r); err != nil {
		return errs.NewDatabaseError("create", "failed to save receipt", err)
	}
	return nil
}

func (s *receiptStore) ListByTransaction(ctx context.Context, txID string) ([]*models.Receipt, error) {
	docs, err := s.collection().Where("transactionId", "==", txID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list receipts", err)
	}
	out := make([]*models.Receipt, 0, len(docs))
	for _, d := range docs {
		var r models.Receipt
		if err := d.DataTo(&r); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse receipt data", err)
		}
		out = append(out, &r)
	}
	return out, nil
}

// DeleteByTransaction removes the receipt records of a transaction with a
// BulkWriter and returns their object paths.
func (s *receiptStore) DeleteByTransaction(ctx context.Context, txID string) ([]string, error) {
	receipts, err := s.ListByTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		return nil, nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(receipts))
	paths := make([]string, 0, len(receipts))
	for _, r := range receipts {
		job, err := bw.Delete(s.collection().Doc(r.ReceiptID))
		if err != nil {
			bw.End()
			return nil, errs.NewDatabaseError("delete", "failed to schedule receipt deletion", err)
		}
		jobs = append(jobs, job)
		paths = append(paths, r.ObjectPath)
	}

	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return nil, errs.NewDatabaseError("delete", "failed to delete receipt", err)
		}
	}
	return paths, nil
}
