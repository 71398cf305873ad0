package handlers

import (
	"net/http"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/middleware"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/internal/response"
)

type roleService interface {
	Me(actor models.Actor) (*dto.MeResponse, error)
}

type roleHandlers struct {
	ResponseHandler response.ResponseHandler
	RoleSvc         roleService
}

func NewRoleHandlers(deps *Deps) *roleHandlers {
	return &roleHandlers{
		ResponseHandler: deps.ResponseHandler,
		RoleSvc:         deps.RoleSvc,
	}
}

// Me returns the caller's role, capabilities and navigation.
func (h *roleHandlers) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.RoleSvc.Me(middleware.Actor(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, me)
}
