package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
)

type stubReportService struct {
	lastPeriod models.Period
	file       *dto.FileExport
	err        error
}

func (s *stubReportService) Build(_ context.Context, _ models.Actor, p models.Period) (*dto.Report, error) {
	s.lastPeriod = p
	return &dto.Report{Type: p.Kind(), Title: p.Title()}, s.err
}

func (s *stubReportService) ExportCSV(_ context.Context, _ models.Actor, p models.Period) (*dto.FileExport, error) {
	s.lastPeriod = p
	return s.file, s.err
}

func (s *stubReportService) ExportHTML(_ context.Context, _ models.Actor, p models.Period) (*dto.FileExport, error) {
	s.lastPeriod = p
	return s.file, s.err
}

func TestGetReport_Monthly(t *testing.T) {
	svc := &stubReportService{}
	resp := &stubResponseHandler{}
	h := NewReportHandlers(&Deps{ResponseHandler: resp, ReportSvc: svc})

	req := withActor(httptest.NewRequest(http.MethodGet, "/reports?type=mensuel&month=2024-02", nil), treasurer)
	h.Get(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled {
		t.Fatalf("expected success, got %v", resp.handleError)
	}
	want := models.MonthlyPeriod{Year: 2024, Month: time.February}
	if svc.lastPeriod != want {
		t.Fatalf("expected %+v, got %+v", want, svc.lastPeriod)
	}
}

func TestGetReport_InvalidPeriod(t *testing.T) {
	for _, q := range []string{"", "type=hebdo", "type=mensuel&month=02-2024", "type=annuel&year=abc"} {
		svc := &stubReportService{}
		resp := &stubResponseHandler{}
		h := NewReportHandlers(&Deps{ResponseHandler: resp, ReportSvc: svc})

		req := withActor(httptest.NewRequest(http.MethodGet, "/reports?"+q, nil), treasurer)
		h.Get(httptest.NewRecorder(), req)

		var verr *errs.ValidationError
		if !errors.As(resp.handleError, &verr) {
			t.Fatalf("%q: expected validation error, got %v", q, resp.handleError)
		}
		if svc.lastPeriod != nil {
			t.Fatalf("%q: service should not be called", q)
		}
	}
}

func TestExportCSV_WritesFile(t *testing.T) {
	svc := &stubReportService{file: &dto.FileExport{
		FileName:    "rapport_annuel_2023.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte(`"Date"`),
	}}
	resp := &stubResponseHandler{}
	h := NewReportHandlers(&Deps{ResponseHandler: resp, ReportSvc: svc})

	req := withActor(httptest.NewRequest(http.MethodGet, "/reports/export.csv?type=annuel&year=2023", nil), treasurer)
	h.ExportCSV(httptest.NewRecorder(), req)

	if !resp.fileCalled || resp.fileName != "rapport_annuel_2023.csv" {
		t.Fatalf("expected file response, got called=%v name=%q", resp.fileCalled, resp.fileName)
	}
	if svc.lastPeriod != (models.AnnualPeriod{Year: 2023}) {
		t.Fatalf("unexpected period %+v", svc.lastPeriod)
	}
}

func TestExportHTML_EmptyPeriodRefused(t *testing.T) {
	svc := &stubReportService{err: errs.NewValidationError("aucune transaction à exporter")}
	resp := &stubResponseHandler{}
	h := NewReportHandlers(&Deps{ResponseHandler: resp, ReportSvc: svc})

	req := withActor(httptest.NewRequest(http.MethodGet, "/reports/export.html?type=annuel&year=2023", nil), treasurer)
	h.ExportHTML(httptest.NewRecorder(), req)

	if resp.fileCalled || !resp.handleErrorCalled {
		t.Fatalf("expected error and no file, got file=%v", resp.fileCalled)
	}
}
