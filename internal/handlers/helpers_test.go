package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/sas-financier/internal/middleware"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/helpers"
)

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error

	errorWriteCalled bool
	errorWriteStatus int

	fileCalled      bool
	fileName        string
	fileContentType string
	fileData        []byte
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":true}`))
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, _, _ string) {
	s.errorWriteCalled = true
	s.errorWriteStatus = status
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

func (s *stubResponseHandler) WriteFile(w http.ResponseWriter, _ *http.Request, fileName, contentType string, data []byte) {
	s.fileCalled = true
	s.fileName = fileName
	s.fileContentType = contentType
	s.fileData = data
	w.WriteHeader(http.StatusOK)
}

var (
	treasurer = models.Actor{UID: "tres-1", Capabilities: models.CapabilitiesFor(models.RoleTresorier)}
	member    = models.Actor{UID: "memb-1", Capabilities: models.CapabilitiesFor(models.RoleMembre)}
)

// withActor injects a resolved caller into the request context.
func withActor(r *http.Request, actor models.Actor) *http.Request {
	ctx := context.WithValue(helpers.TestCtx(), middleware.UIDKey, actor.UID)
	ctx = context.WithValue(ctx, middleware.ActorKey, actor)
	return r.WithContext(ctx)
}

// withChiParam injects a chi URL parameter into the request context.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// multipartBody builds a form with a single "file" part.
func multipartBody(t *testing.T, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
