package handlers

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/middleware"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/internal/response"
)

type dashboardService interface {
	GetDashboard(ctx context.Context, actor models.Actor) (*dto.Dashboard, error)
	SystemStats(ctx context.Context, actor models.Actor) (*dto.SystemStats, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    dashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.DashboardSvc.GetDashboard(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, d)
}

func (h *dashboardHandlers) SystemStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.DashboardSvc.SystemStats(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}
