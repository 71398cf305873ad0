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

type memberService interface {
	List(ctx context.Context, actor models.Actor) ([]*dto.MemberResponse, error)
	Get(ctx context.Context, actor models.Actor, id string) (*dto.MemberResponse, error)
	Create(ctx context.Context, actor models.Actor, req dto.MemberRequest) (*dto.MemberResponse, error)
	Update(ctx context.Context, actor models.Actor, id string, req dto.MemberRequest) (*dto.MemberResponse, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

type memberHandlers struct {
	ResponseHandler response.ResponseHandler
	MemberSvc       memberService
}

func NewMemberHandlers(deps *Deps) *memberHandlers {
	return &memberHandlers{
		ResponseHandler: deps.ResponseHandler,
		MemberSvc:       deps.MemberSvc,
	}
}

func (h *memberHandlers) MemberRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *memberHandlers) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.MemberSvc.List(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, members)
}

func (h *memberHandlers) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.MemberSvc.Get(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, m)
}

func (h *memberHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.MemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	m, err := h.MemberSvc.Create(r.Context(), middleware.Actor(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, m)
}

func (h *memberHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.MemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	m, err := h.MemberSvc.Update(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, m)
}

func (h *memberHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.MemberSvc.Delete(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
