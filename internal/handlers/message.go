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

type messageService interface {
	List(ctx context.Context, actor models.Actor, limit int) ([]*dto.MessageView, error)
	Post(ctx context.Context, actor models.Actor, req dto.MessageRequest) (*models.CommunityMessage, error)
	Edit(ctx context.Context, actor models.Actor, id string, req dto.MessageRequest) (*models.CommunityMessage, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

type messageHandlers struct {
	ResponseHandler response.ResponseHandler
	MessageSvc      messageService
}

func NewMessageHandlers(deps *Deps) *messageHandlers {
	return &messageHandlers{
		ResponseHandler: deps.ResponseHandler,
		MessageSvc:      deps.MessageSvc,
	}
}

func (h *messageHandlers) MessageRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Post)
	r.Put("/{id}", h.Edit)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *messageHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	msgs, err := h.MessageSvc.List(r.Context(), middleware.Actor(r.Context()), limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, msgs)
}

func (h *messageHandlers) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.MessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	msg, err := h.MessageSvc.Post(r.Context(), middleware.Actor(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, msg)
}

func (h *messageHandlers) Edit(w http.ResponseWriter, r *http.Request) {
	var req dto.MessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	msg, err := h.MessageSvc.Edit(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, msg)
}

func (h *messageHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.MessageSvc.Delete(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
