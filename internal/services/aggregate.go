package services

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/models"
)

var approved = models.StatutApprouve

// ApprovedOnly is the filter used by the dashboard, reports and system stats.
func ApprovedOnly() dto.AggregateFilter {
	return dto.AggregateFilter{Statut: &approved}
}

// AggregateTransactions folds txs into income/expense totals and a
// per-category breakdown. Categories keep first-seen order. All sums are
// exact decimals.
func AggregateTransactions(txs []*models.Transaction, f dto.AggregateFilter) dto.Aggregate {
	out := dto.Aggregate{
		Entrees:    decimal.Zero,
		Sorties:    decimal.Zero,
		ByCategory: []dto.CategoryTotals{},
	}
	index := map[string]int{}

	for _, tx := range txs {
		if tx == nil {
			continue
		}
		if tx.Statut == models.StatutEnAttente {
			out.Pending++
		}
		if !involves(tx, f.InvolvingUID) {
			continue
		}
		if f.Statut != nil && tx.Statut != *f.Statut {
			continue
		}

		switch tx.Type {
		case models.TypeEntree:
			cat := category(&out, index, tx.Categorie)
			out.Entrees = out.Entrees.Add(tx.Montant)
			cat.Entrees = cat.Entrees.Add(tx.Montant)
		case models.TypeSortie:
			cat := category(&out, index, tx.Categorie)
			out.Sorties = out.Sorties.Add(tx.Montant)
			cat.Sorties = cat.Sorties.Add(tx.Montant)
		default:
			continue
		}
		out.Count++
	}

	out.Solde = out.Entrees.Sub(out.Sorties)
	return out
}

// category returns the row for name, appending it on first sight.
func category(out *dto.Aggregate, index map[string]int, name string) *dto.CategoryTotals {
	i, ok := index[name]
	if !ok {
		i = len(out.ByCategory)
		index[name] = i
		out.ByCategory = append(out.ByCategory, dto.CategoryTotals{
			Categorie: name,
			Entrees:   decimal.Zero,
			Sorties:   decimal.Zero,
		})
	}
	return &out.ByCategory[i]
}

func involves(tx *models.Transaction, uid string) bool {
	if uid == "" {
		return true
	}
	return tx.CreatedBy == uid || (tx.ApprouvePar != nil && *tx.ApprouvePar == uid)
}
