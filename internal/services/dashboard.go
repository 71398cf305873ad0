package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/helpers"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

const dashboardRecentLimit = 5

type transactionDSStore interface {
	List(ctx context.Context, q dto.TransactionQuery) ([]*models.Transaction, error)
	Count(ctx context.Context) (int, error)
}

type counter interface {
	Count(ctx context.Context) (int, error)
}

type profileCounter interface {
	CountProfiles(ctx context.Context) (int, error)
}

type dashboardService struct {
	txs      transactionDSStore
	members  counter
	profiles profileCounter
	settings settingsProvider
}

func NewDashboardService(txs transactionDSStore, members counter, profiles profileCounter, settings settingsProvider) *dashboardService {
	return &dashboardService{txs: txs, members: members, profiles: profiles, settings: settings}
}

// GetDashboard loads the transactions and the member count concurrently.
// Totals cover approved transactions only.
func (s *dashboardService) GetDashboard(ctx context.Context, actor models.Actor) (*dto.Dashboard, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	var (
		txs     []*models.Transaction
		members int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.txs.List(gctx, dto.TransactionQuery{})
		return err
	})
	g.Go(func() error {
		var err error
		members, err = s.members.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Error("failed to load dashboard", "error", err)
		return nil, err
	}

	agg := AggregateTransactions(txs, ApprovedOnly())
	recent := txs
	if len(recent) > dashboardRecentLimit {
		recent = recent[:dashboardRecentLimit]
	}
	if recent == nil {
		recent = []*models.Transaction{}
	}

	return &dto.Dashboard{
		AppName:               s.settings.Current().AppName,
		TotalEntrees:          agg.Entrees,
		TotalSorties:          agg.Sorties,
		Solde:                 agg.Solde,
		NombreMembres:         members,
		TransactionsEnAttente: agg.Pending,
		ByCategory:            agg.ByCategory,
		RecentTransactions:    recent,
	}, nil
}

func (s *dashboardService) SystemStats(ctx context.Context, actor models.Actor) (*dto.SystemStats, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var stats dto.SystemStats
	var approvedTxs []*models.Transaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.TotalUsers, err = s.profiles.CountProfiles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalTransactions, err = s.txs.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalMembres, err = s.members.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		approvedTxs, err = s.txs.List(gctx, dto.TransactionQuery{Statut: helpers.Ptr(models.StatutApprouve)})
		return err
	})
	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Error("failed to load system stats", "error", err)
		return nil, err
	}

	agg := AggregateTransactions(approvedTxs, ApprovedOnly())
	stats.TotalEntrees = agg.Entrees
	stats.TotalSorties = agg.Sorties
	return &stats, nil
}
