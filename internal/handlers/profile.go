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

type profileService interface {
	Get(ctx context.Context, actor models.Actor) (*dto.ProfilePage, error)
	UploadPhoto(ctx context.Context, actor models.Actor, file dto.Upload) (*models.Profile, error)
	DeletePhoto(ctx context.Context, actor models.Actor) error
}

type profileHandlers struct {
	ResponseHandler response.ResponseHandler
	ProfileSvc      profileService
}

func NewProfileHandlers(deps *Deps) *profileHandlers {
	return &profileHandlers{
		ResponseHandler: deps.ResponseHandler,
		ProfileSvc:      deps.ProfileSvc,
	}
}

func (h *profileHandlers) ProfileRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Put("/photo", h.UploadPhoto)
	r.Delete("/photo", h.DeletePhoto)
	return r
}

func (h *profileHandlers) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.ProfileSvc.Get(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, page)
}

func (h *profileHandlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	file, err := readUpload(w, r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	profile, err := h.ProfileSvc.UploadPhoto(r.Context(), middleware.Actor(r.Context()), file)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, profile)
}

func (h *profileHandlers) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.ProfileSvc.DeletePhoto(r.Context(), middleware.Actor(r.Context())); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
