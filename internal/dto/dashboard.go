package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sas-financier/internal/models"
)

type Dashboard struct {
	AppName               string                `json:"appName"`
	TotalEntrees          decimal.Decimal       `json:"totalEntrees"`
	TotalSorties          decimal.Decimal       `json:"totalSorties"`
	Solde                 decimal.Decimal       `json:"solde"`
	NombreMembres         int                   `json:"nombreMembres"`
	TransactionsEnAttente int                   `json:"transactionsEnAttente"`
	ByCategory            []CategoryTotals      `json:"byCategory"`
	RecentTransactions    []*models.Transaction `json:"recentTransactions"`
}

type SystemStats struct {
	TotalUsers        int             `json:"totalUsers"`
	TotalTransactions int             `json:"totalTransactions"`
	TotalMembres      int             `json:"totalMembres"`
	TotalEntrees      decimal.Decimal `json:"totalEntrees"`
	TotalSorties      decimal.Decimal `json:"totalSorties"`
}
