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

type userService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	ListUsers(ctx context.Context, actor models.Actor) ([]*models.UserWithRole, error)
	UpdateRole(ctx context.Context, actor models.Actor, uid string, role models.Role) error
	DeleteUser(ctx context.Context, actor models.Actor, uid string) error
}

type userHandlers struct {
	ResponseHandler response.ResponseHandler
	UserSvc         userService
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler: deps.ResponseHandler,
		UserSvc:         deps.UserSvc,
	}
}

// AuthRoutes are mounted without authentication.
func (h *userHandlers) AuthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.Signup)
	return r
}

func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Put("/{uid}/role", h.UpdateRole)
	r.Delete("/{uid}", h.Delete)
	return r
}

func (h *userHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.UserSvc.Signup(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, resp)
}

func (h *userHandlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserSvc.ListUsers(r.Context(), middleware.Actor(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, users)
}

func (h *userHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.UserSvc.UpdateRole(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "uid"), req.Role); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *userHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserSvc.DeleteUser(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "uid")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
