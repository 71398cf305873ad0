package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeEntree TransactionType = "entree"
	TypeSortie TransactionType = "sortie"
)

func (t TransactionType) Valid() bool {
	return t == TypeEntree || t == TypeSortie
}

func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// Label is the French display label used in exports.
func (t TransactionType) Label() string {
	if t == TypeEntree {
		return "Entrée"
	}
	return "Sortie"
}

// Statut is the approval status of a transaction. en_attente is the only
// non-terminal value.
type Statut string

const (
	StatutEnAttente Statut = "en_attente"
	StatutApprouve  Statut = "approuve"
	StatutRejete    Statut = "rejete"
)

func ParseStatut(s string) (Statut, error) {
	switch Statut(s) {
	case StatutEnAttente, StatutApprouve, StatutRejete:
		return Statut(s), nil
	default:
		return "", fmt.Errorf("unknown statut %q", s)
	}
}

func (s Statut) Terminal() bool {
	return s == StatutApprouve || s == StatutRejete
}

func (s *Statut) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatut(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Transaction struct {
	ID                  string          `json:"id"`
	Type                TransactionType `json:"type"`
	Categorie           string          `json:"categorie"`
	Montant             decimal.Decimal `json:"montant"`
	Libelle             string          `json:"libelle"`
	DateTransaction     string          `json:"dateTransaction"` // YYYY-MM-DD
	Statut              Statut          `json:"statut"`
	CreatedBy           string          `json:"createdBy"`
	ApprouvePar         *string         `json:"approuvePar,omitempty"`
	Matricule           *string         `json:"matricule,omitempty"`
	NumeroRecu          *string         `json:"numeroRecu,omitempty"`
	ResponsableFonction *string         `json:"responsableFonction,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

type Receipt struct {
	ReceiptID     string    `firestore:"receiptId" json:"receiptId"`
	TransactionID string    `firestore:"transactionId" json:"transactionId"`
	FileURL       string    `firestore:"fileUrl" json:"fileUrl"`
	FileName      string    `firestore:"fileName" json:"fileName"`
	ObjectPath    string    `firestore:"objectPath" json:"-"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
}
