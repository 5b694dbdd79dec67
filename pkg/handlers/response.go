// Package handlers holds the response helpers shared by the HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ecotown/biomarker-atlas/pkg/models/api"
	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
)

// multipartOverhead is allowed on top of the upload limit for form framing.
const multipartOverhead = 1 << 20

func WriteJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, message, details string) {
	WriteJSON(w, r, status, api.ErrorResponse{Error: message, Details: details})
}

// ReadUpload reads the multipart field "file". A missing field yields an empty
// upload so the pipeline can reject it with its own message.
func ReadUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (filename string, data []byte, err error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, domain.InputError(fmt.Sprintf("File exceeds the %d MB upload limit", maxBytes>>20), err)
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return "", nil, nil
		}
		return "", nil, domain.InputError("Malformed upload", err)
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, domain.InputError("Malformed upload", err)
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return "", nil, domain.InputError("Malformed upload", err)
	}
	return header.Filename, data, nil
}
