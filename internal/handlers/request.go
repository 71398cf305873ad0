package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/GregMSThompson/sas-financier/internal/dto"
	"github.com/GregMSThompson/sas-financier/internal/errs"
)

const (
	maxJSONBytes   = 1 << 20
	maxUploadBytes = 10 << 20
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return errs.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}

// readUpload reads the multipart field "file". Size and type limits for
// each kind of upload are enforced by the services.
func readUpload(w http.ResponseWriter, r *http.Request) (dto.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dto.Upload{}, errs.NewValidationError("file too large")
		}
		return dto.Upload{}, errs.NewValidationError("invalid multipart form")
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		return dto.Upload{}, errs.NewValidationError("missing file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return dto.Upload{}, errs.NewValidationError("failed to read file")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return dto.Upload{
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errs.NewValidationError("limit must be a positive integer")
	}
	return n, nil
}
