package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/middleware"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/internal/response"
)

type settingsService interface {
	Current() models.AppSettings
	Update(ctx context.Context, actor models.Actor, req dto.UpdateSettingsRequest) (models.AppSettings, error)
	UploadLogo(ctx context.Context, actor models.Actor, file dto.Upload) (models.AppSettings, error)
	DeleteLogo(ctx context.Context, actor models.Actor) (models.AppSettings, error)
}

type settingsHandlers struct {
	ResponseHandler response.ResponseHandler
	SettingsSvc     settingsService
}

func NewSettingsHandlers(deps *Deps) *settingsHandlers {
	return &settingsHandlers{
		ResponseHandler: deps.ResponseHandler,
		SettingsSvc:     deps.SettingsSvc,
	}
}

// SettingsRoutes serves reads publicly; writes go through authenticated.
func (h *settingsHandlers) SettingsRoutes(authenticated ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(authenticated...)
		r.Put("/", h.Update)
		r.Put("/logo", h.UploadLogo)
		r.Delete("/logo", h.DeleteLogo)
	})
	return r
}

func (h *settingsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.SettingsSvc.Current())
}

func (h *settingsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	settings, err := h.SettingsSvc.Update(r.Context(), middleware.Actor(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *settingsHandlers) UploadLogo(w http.ResponseWriter, r *http.Request) {
	file, err := readUpload(w, r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	settings, err := h.SettingsSvc.UploadLogo(r.Context(), middleware.Actor(r.Context()), file)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *settingsHandlers) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	settings, err := h.SettingsSvc.DeleteLogo(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}
