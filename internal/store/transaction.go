package store

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
)

// transactionDoc is the Firestore shape of a transaction. Amounts are kept as
// decimal strings so no float rounding happens on the way in or out.
type transactionDoc struct {
	ID                  string    `firestore:"id"`
	Type                string    `firestore:"type"`
	Categorie           string    `firestore:"categorie"`
	Montant             string    `firestore:"montant"`
	Libelle             string    `firestore:"libelle"`
	DateTransaction     string    `firestore:"dateTransaction"`
	Statut              string    `firestore:"statut"`
	CreatedBy           string    `firestore:"createdBy"`
	ApprouvePar         *string   `firestore:"approuvePar"`
	Matricule           *string   `firestore:"matricule"`
	NumeroRecu          *string   `firestore:"numeroRecu"`
	ResponsableFonction *string   `firestore:"responsableFonction"`
	CreatedAt           time.Time `firestore:"createdAt"`
	UpdatedAt           time.Time `firestore:"updatedAt"`
}

func toTransactionDoc(t *models.Transaction) transactionDoc {
	return transactionDoc{
		ID:                  t.ID,
		Type:                string(t.Type),
		Categorie:           t.Categorie,
		Montant:             t.Montant.String(),
		Libelle:             t.Libelle,
		DateTransaction:     t.DateTransaction,
		Statut:              string(t.Statut),
		CreatedBy:           t.CreatedBy,
		ApprouvePar:         t.ApprouvePar,
		Matricule:           t.Matricule,
		NumeroRecu:          t.NumeroRecu,
		ResponsableFonction: t.ResponsableFonction,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func (d transactionDoc) toModel() (*models.Transaction, error) {
	montant, err := decimal.NewFromString(d.Montant)
	if err != nil {
		return nil, err
	}
	statut, err := models.ParseStatut(d.Statut)
	if err != nil {
		return nil, err
	}
	txType, err := models.ParseTransactionType(d.Type)
	if err != nil {
		return nil, err
	}
	return &models.Transaction{
		ID:                  d.ID,
		Type:                txType,
		Categorie:           d.Categorie,
		Montant:             montant,
		Libelle:             d.Libelle,
		DateTransaction:     d.DateTransaction,
		Statut:              statut,
		CreatedBy:           d.CreatedBy,
		ApprouvePar:         d.ApprouvePar,
		Matricule:           d.Matricule,
		NumeroRecu:          d.NumeroRecu,
		ResponsableFonction: d.ResponsableFonction,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}, nil
}

func decodeTransaction(snap *firestore.DocumentSnapshot) (*models.Transaction, error) {
	var d transactionDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	tx, err := d.toModel()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "invalid transaction document "+snap.Ref.ID, err)
	}
	return tx, nil
}

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection() *firestore.CollectionRef {
	return s.client.Collection("transactions")
}

func (s *transactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	now := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now
	_, err := s.collection().Doc(tx.ID).Create(ctx, toTransactionDoc(tx))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("transaction already exists")
		}
		return errs.NewDatabaseError("create", "failed to create transaction", err)
	}
	return nil
}

func (s *transactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	snap, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("transaction not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get transaction", err)
	}
	return decodeTransaction(snap)
}

// Transition runs mutate against the current record inside a Firestore
// transaction and writes the result back. Concurrent callers are serialised
// by Firestore; a losing attempt is retried against the fresh record.
func (s *transactionStore) Transition(ctx context.Context, id string, mutate func(*models.Transaction) error) (*models.Transaction, error) {
	ref := s.collection().Doc(id)
	var out *models.Transaction
	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		snap, err := t.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("transaction not found")
			}
			return errs.NewDatabaseError("read", "failed to get transaction", err)
		}
		tx, err := decodeTransaction(snap)
		if err != nil {
			return err
		}
		if err := mutate(tx); err != nil {
			return err
		}
		tx.UpdatedAt = time.Now()
		out = tx
		return t.Set(ref, toTransactionDoc(tx))
	})
	if err != nil {
		var (
			notFound   *errs.NotFoundError
			transition *errs.InvalidTransitionError
			forbidden  *errs.ForbiddenError
			database   *errs.DatabaseError
		)
		if errors.As(err, &notFound) || errors.As(err, &transition) ||
			errors.As(err, &forbidden) || errors.As(err, &database) {
			return nil, err
		}
		return nil, errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	return out, nil
}

func (s *transactionStore) Delete(ctx context.Context, id string) error {
	_, err := s.collection().Doc(id).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return nil
}

func (s *transactionStore) buildQuery(q dto.TransactionQuery) firestore.Query {
	query := s.collection().Query
	if q.Statut != nil {
		query = query.Where("statut", "==", string(*q.Statut))
	}
	if q.Type != nil {
		query = query.Where("type", "==", string(*q.Type))
	}
	if q.CreatedBy != nil {
		query = query.Where("createdBy", "==", *q.CreatedBy)
	}
	if q.ApprouvePar != nil {
		query = query.Where("approuvePar", "==", *q.ApprouvePar)
	}
	if q.DateFrom != nil {
		query = query.Where("dateTransaction", ">=", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("dateTransaction", "<=", *q.DateTo)
	}

	dir := firestore.Desc
	if q.Asc {
		dir = firestore.Asc
	}
	orderBy := "createdAt"
	if q.OrderBy == "dateTransaction" {
		orderBy = "dateTransaction"
	}
	query = query.OrderBy(orderBy, dir)

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return query
}

func (s *transactionStore) List(ctx context.Context, q dto.TransactionQuery) ([]*models.Transaction, error) {
	return collectTransactions(ctx, s.buildQuery(q))
}

// ListInvolving returns the latest transactions the user created or decided on.
func (s *transactionStore) ListInvolving(ctx context.Context, uid string, limit int) ([]*models.Transaction, error) {
	query := s.collection().WhereEntity(firestore.OrFilter{
		Filters: []firestore.EntityFilter{
			firestore.PropertyFilter{Path: "createdBy", Operator: "==", Value: uid},
			firestore.PropertyFilter{Path: "approuvePar", Operator: "==", Value: uid},
		},
	}).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return collectTransactions(ctx, query)
}

func (s *transactionStore) Count(ctx context.Context) (int, error) {
	res, err := s.collection().NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to count transactions", err)
	}
	return aggregationCount(res["all"])
}

func collectTransactions(ctx context.Context, query firestore.Query) ([]*models.Transaction, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []*models.Transaction
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list transactions", err)
		}
		tx, err := decodeTransaction(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}
