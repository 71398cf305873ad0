package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sas-financier/internal/models"
)

type AggregateFilter struct {
	// Statut restricts the sums to one status. Nil sums every status.
	Statut *models.Statut
	// InvolvingUID restricts to transactions created or decided by the user.
	InvolvingUID string
}

type CategoryTotals struct {
	Categorie string          `json:"categorie"`
	Entrees   decimal.Decimal `json:"entrees"`
	Sorties   decimal.Decimal `json:"sorties"`
}

type Aggregate struct {
	Entrees    decimal.Decimal  `json:"entrees"`
	Sorties    decimal.Decimal  `json:"sorties"`
	Solde      decimal.Decimal  `json:"solde"`
	ByCategory []CategoryTotals `json:"byCategory"`
	// Count is the number of transactions included in the sums.
	Count int `json:"count"`
	// Pending counts every en_attente transaction in the input, before any
	// filter is applied.
	Pending int `json:"pending"`
}
