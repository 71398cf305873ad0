package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/helpers"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

var csvHeader = []string{"Date", "Type", "Catégorie", "Libellé", "Montant", "Statut", "Numéro de reçu"}

type transactionRPStore interface {
	List(ctx context.Context, q dto.TransactionQuery) ([]*models.Transaction, error)
}

type settingsProvider interface {
	Current() models.AppSettings
}

type reportMetrics interface {
	ReportExported(format string)
}

type reportService struct {
	txs      transactionRPStore
	settings settingsProvider
	metrics  reportMetrics
	now      func() time.Time
}

func NewReportService(txs transactionRPStore, settings settingsProvider, metrics reportMetrics) *reportService {
	return &reportService{
		txs:      txs,
		settings: settings,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Build returns the approved transactions dated inside the period, oldest
// first, with their aggregate.
func (s *reportService) Build(ctx context.Context, actor models.Actor, period models.Period) (*dto.Report, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	from, to := period.Bounds()
	txs, err := s.txs.List(ctx, dto.TransactionQuery{
		Statut:   helpers.Ptr(models.StatutApprouve),
		DateFrom: &from,
		DateTo:   &to,
		OrderBy:  "dateTransaction",
		Asc:      true,
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to load report transactions", "error", err)
		return nil, err
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}

	if logger.IsDebugEnabled(ctx) {
		logger.FromContext(ctx).Debug("report built", "period", period.Slug(), "transactions", len(txs))
	}

	return &dto.Report{
		Type:         period.Kind(),
		Period:       period.Slug(),
		Title:        period.Title(),
		From:         from,
		To:           to,
		Aggregate:    AggregateTransactions(txs, ApprovedOnly()),
		Transactions: txs,
	}, nil
}

func (s *reportService) exportable(ctx context.Context, actor models.Actor, period models.Period) (*dto.Report, error) {
	report, err := s.Build(ctx, actor, period)
	if err != nil {
		return nil, err
	}
	if len(report.Transactions) == 0 {
		return nil, errs.NewValidationError("aucune transaction à exporter")
	}
	return report, nil
}

func (s *reportService) ExportCSV(ctx context.Context, actor models.Actor, period models.Period) (*dto.FileExport, error) {
	report, err := s.exportable(ctx, actor, period)
	if err != nil {
		return nil, err
	}

	s.metrics.ReportExported("csv")
	logger.FromContext(ctx).Info("report exported", "format", "csv", "period", report.Period)
	return &dto.FileExport{
		FileName:    "rapport_" + period.Kind() + "_" + period.Slug() + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte(renderCSV(report.Transactions)),
	}, nil
}

// renderCSV quotes every field and doubles embedded quotes. Records are
// separated by a single newline with no trailing newline.
func renderCSV(txs []*models.Transaction) string {
	rows := make([]string, 0, len(txs)+1)
	rows = append(rows, csvRow(csvHeader))
	for _, tx := range txs {
		rows = append(rows, csvRow([]string{
			frenchDate(tx.DateTransaction),
			tx.Type.Label(),
			tx.Categorie,
			tx.Libelle,
			tx.Montant.String(),
			string(tx.Statut),
			helpers.Value(tx.NumeroRecu),
		}))
	}
	return strings.Join(rows, "\n")
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

type printableReport struct {
	*dto.Report
	AppName     string
	LogoURL     string
	GeneratedAt string
}

// ExportHTML renders a standalone document meant for the browser's print
// dialog.
func (s *reportService) ExportHTML(ctx context.Context, actor models.Actor, period models.Period) (*dto.FileExport, error) {
	report, err := s.exportable(ctx, actor, period)
	if err != nil {
		return nil, err
	}

	settings := s.settings.Current()
	var buf bytes.Buffer
	err = reportTemplate.Execute(&buf, printableReport{
		Report:      report,
		AppName:     settings.AppName,
		LogoURL:     settings.AppLogoURL,
		GeneratedAt: s.now().Format("02/01/2006 à 15:04"),
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to render report", "error", err)
		return nil, err
	}

	s.metrics.ReportExported("html")
	logger.FromContext(ctx).Info("report exported", "format", "html", "period", report.Period)
	return &dto.FileExport{
		FileName:    "rapport_" + period.Kind() + "_" + period.Slug() + ".html",
		ContentType: "text/html; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}
