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

type transactionService interface {
	Categories() dto.CategoryOptions
	Create(ctx context.Context, actor models.Actor, req dto.CreateTransactionRequest) (*models.Transaction, error)
	List(ctx context.Context, actor models.Actor, req dto.ListTransactionsRequest) ([]*models.Transaction, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error)
	Approve(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error)
	Reject(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	AddReceipt(ctx context.Context, actor models.Actor, id string, file dto.Upload) (*models.Receipt, error)
	ListReceipts(ctx context.Context, actor models.Actor, id string) ([]*models.Receipt, error)
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/categories", h.Categories) // must be before /{id}
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/approve", h.Approve)
	r.Post("/{id}/reject", h.Reject)
	r.Get("/{id}/receipts", h.ListReceipts)
	r.Post("/{id}/receipts", h.AddReceipt)
	return r
}

func (h *transactionHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.TransactionSvc.Categories())
}

func (h *transactionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	tx, err := h.TransactionSvc.Create(r.Context(), middleware.Actor(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, tx)
}

func (h *transactionHandlers) List(w http.ResponseWriter, r *http.Request) {
	req, err := listTransactionsRequest(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	txs, err := h.TransactionSvc.List(r.Context(), middleware.Actor(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, txs)
}

func listTransactionsRequest(r *http.Request) (dto.ListTransactionsRequest, error) {
	var req dto.ListTransactionsRequest
	q := r.URL.Query()

	if raw := q.Get("statut"); raw != "" {
		st, err := models.ParseStatut(raw)
		if err != nil {
			return req, errs.NewValidationError(err.Error())
		}
		req.Statut = &st
	}
	if raw := q.Get("type"); raw != "" {
		t := models.TransactionType(raw)
		if !t.Valid() {
			return req, errs.NewValidationError("type must be entree or sortie")
		}
		req.Type = &t
	}
	if uid := q.Get("createdBy"); uid != "" {
		req.CreatedBy = &uid
	}
	if uid := q.Get("approuvePar"); uid != "" {
		req.ApprouvePar = &uid
	}
	limit, err := queryLimit(r)
	if err != nil {
		return req, err
	}
	req.Limit = limit
	return req, nil
}

func (h *transactionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.TransactionSvc.Get(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	tx, err := h.TransactionSvc.Approve(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	tx, err := h.TransactionSvc.Reject(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.TransactionSvc.Delete(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *transactionHandlers) AddReceipt(w http.ResponseWriter, r *http.Request) {
	file, err := readUpload(w, r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	receipt, err := h.TransactionSvc.AddReceipt(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), file)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, receipt)
}

func (h *transactionHandlers) ListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.TransactionSvc.ListReceipts(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, receipts)
}
