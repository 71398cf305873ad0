package dto

import "github.com/GregMSThompson/sas-financier/internal/models"

type TransactionQuery struct {
	Statut      *models.Statut
	Type        *models.TransactionType
	CreatedBy   *string
	ApprouvePar *string
	DateFrom    *string
	DateTo      *string
	OrderBy     string // "createdAt" (default) or "dateTransaction"
	Asc         bool
	Limit       int
}

type CreateTransactionRequest struct {
	Type                models.TransactionType `json:"type"`
	Categorie           string                 `json:"categorie"`
	Montant             string                 `json:"montant"`
	Libelle             string                 `json:"libelle"`
	DateTransaction     string                 `json:"dateTransaction"`
	Matricule           string                 `json:"matricule,omitempty"`
	NumeroRecu          string                 `json:"numeroRecu,omitempty"`
	ResponsableFonction string                 `json:"responsableFonction,omitempty"`
}

type ListTransactionsRequest struct {
	Statut      *models.Statut
	Type        *models.TransactionType
	CreatedBy   *string
	ApprouvePar *string
	Limit       int
}

// Upload is a file received from a multipart form.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

type CategoryOptions struct {
	Entree []string `json:"entree"`
	Sortie []string `json:"sortie"`
}
