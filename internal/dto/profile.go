package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sas-financier/internal/models"
)

type ProfileStats struct {
	TransactionsCreees int             `json:"transactionsCreees"`
	TotalEntrees       decimal.Decimal `json:"totalEntrees"`
	TotalSorties       decimal.Decimal `json:"totalSorties"`
}

type ProfilePage struct {
	Profile            *models.Profile       `json:"profile"`
	Role               models.Role           `json:"role,omitempty"`
	Member             *MemberResponse       `json:"member,omitempty"`
	RecentTransactions []*models.Transaction `json:"recentTransactions"`
	Stats              ProfileStats          `json:"stats"`
}
