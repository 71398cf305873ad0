package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/pkg/helpers"
)

func newHandler() *responseHandler {
	return New(helpers.TestLogger())
}

func TestHandleErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", errs.NewNotFoundError("transaction not found"), http.StatusNotFound, "not_found"},
		{"exists", errs.NewAlreadyExistsError("email déjà utilisé"), http.StatusConflict, "already_exists"},
		{"validation", errs.NewValidationError("montant invalide"), http.StatusBadRequest, "invalid_input"},
		{"forbidden", errs.NewForbiddenError("admin role required"), http.StatusForbidden, "forbidden"},
		{"unauthorized", errs.NewUnauthorizedError("authentication required"), http.StatusUnauthorized, "unauthorized"},
		{"transition", errs.NewInvalidTransitionError("approuve", "reject"), http.StatusConflict, "invalid_transition"},
		{"database", errs.NewDatabaseError("read", "failed", errors.New("boom")), http.StatusInternalServerError, "internal_error"},
		{"external transient", errs.NewExternalServiceError("storage", "down", true, nil), http.StatusServiceUnavailable, "service_unavailable"},
		{"external permanent", errs.NewExternalServiceError("identity", "bad", false, nil), http.StatusBadGateway, "service_unavailable"},
		{"encryption", errs.NewEncryptionError("kms", nil), http.StatusInternalServerError, "internal_error"},
		{"wrapped", fmt.Errorf("service: %w", errs.NewNotFoundError("member not found")), http.StatusNotFound, "not_found"},
		{"unknown", errors.New("plain"), http.StatusInternalServerError, "internal_error"},
	}

	h := newHandler()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
			rr := httptest.NewRecorder()

			h.HandleError(rr, req, tc.err)

			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rr.Code)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, body.Code)
			}
		})
	}
}

func TestHandleErrorHidesInternalMessages(t *testing.T) {
	h := newHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
	rr := httptest.NewRecorder()

	h.HandleError(rr, req, errs.NewDatabaseError("write", "failed to write transactions/abc", nil))

	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "An error occurred" {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	h := newHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	h.WriteSuccess(rr, req, http.StatusCreated, map[string]string{"id": "tx-1"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	var env struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Data["id"] != "tx-1" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestWriteFileHeaders(t *testing.T) {
	h := newHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	h.WriteFile(rr, req, "rapport_mensuel_2024-02.csv", "text/csv; charset=utf-8", []byte("a,b"))

	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="rapport_mensuel_2024-02.csv"` {
		t.Fatalf("unexpected disposition: %s", got)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type: %s", got)
	}
	if rr.Body.String() != "a,b" {
		t.Fatalf("unexpected body: %q", rr.Body.String())
	}
}
