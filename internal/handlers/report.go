package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/middleware"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/internal/response"
)

type reportService interface {
	Build(ctx context.Context, actor models.Actor, period models.Period) (*dto.Report, error)
	ExportCSV(ctx context.Context, actor models.Actor, period models.Period) (*dto.FileExport, error)
	ExportHTML(ctx context.Context, actor models.Actor, period models.Period) (*dto.FileExport, error)
}

type reportHandlers struct {
	ResponseHandler response.ResponseHandler
	ReportSvc       reportService
}

func NewReportHandlers(deps *Deps) *reportHandlers {
	return &reportHandlers{
		ResponseHandler: deps.ResponseHandler,
		ReportSvc:       deps.ReportSvc,
	}
}

func (h *reportHandlers) ReportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Get("/export.csv", h.ExportCSV)
	r.Get("/export.html", h.ExportHTML)
	return r
}

// queryPeriod reads ?type=mensuel&month=YYYY-MM or ?type=annuel&year=YYYY.
func queryPeriod(r *http.Request) (models.Period, error) {
	q := r.URL.Query()
	p, err := models.ParsePeriod(q.Get("type"), q.Get("month"), q.Get("year"))
	if err != nil {
		return nil, errs.NewValidationError(err.Error())
	}
	return p, nil
}

func (h *reportHandlers) Get(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	report, err := h.ReportSvc.Build(r.Context(), middleware.Actor(r.Context()), period)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, report)
}

func (h *reportHandlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.ReportSvc.ExportCSV)
}

func (h *reportHandlers) ExportHTML(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.ReportSvc.ExportHTML)
}

func (h *reportHandlers) export(w http.ResponseWriter, r *http.Request,
	render func(context.Context, models.Actor, models.Period) (*dto.FileExport, error)) {
	period, err := queryPeriod(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	file, err := render(r.Context(), middleware.Actor(r.Context()), period)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteFile(w, r, file.FileName, file.ContentType, file.Data)
}
