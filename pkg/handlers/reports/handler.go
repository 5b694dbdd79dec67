package reports

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ecotown/biomarker-atlas/pkg/adapters"
	"github.com/ecotown/biomarker-atlas/pkg/handlers"
	"github.com/ecotown/biomarker-atlas/pkg/models/api"
	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/pipeline"
)

type Handler struct {
	pipeline       pipeline.Controller
	maxUploadBytes int64
}

func NewHandler(p pipeline.Controller, maxUploadBytes int64) *Handler {
	return &Handler{pipeline: p, maxUploadBytes: maxUploadBytes}
}

// Extract returns the raw text layer of the uploaded document.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	filename, data, err := handlers.ReadUpload(w, r, h.maxUploadBytes)
	if err == nil {
		var res domain.ExtractionResult
		res, err = h.pipeline.Extract(ctx, pipeline.Upload{Filename: filename, Data: data})
		if err == nil {
			handlers.WriteJSON(w, r, http.StatusOK, adapters.MapExtractionResultDomainToApi(res))
			return
		}
	}

	if domain.KindOf(err) == domain.ErrorKindInput {
		handlers.WriteError(w, r, http.StatusBadRequest, domain.UserMessage(err), "")
		return
	}
	logger.Error().Err(err).Str("filename", filename).Msg("extraction failed")
	handlers.WriteError(w, r, http.StatusInternalServerError, "Extraction failed", domain.UserMessage(err))
}

// Upload runs the whole pipeline and merges the result into the record.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filename, data, err := handlers.ReadUpload(w, r, h.maxUploadBytes)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, domain.UserMessage(err), "")
		return
	}

	outcome, err := h.pipeline.Process(ctx, pipeline.Upload{Filename: filename, Data: data})
	if err != nil {
		handlers.WriteError(w, r, statusFor(err), domain.UserMessage(err), "")
		return
	}

	handlers.WriteJSON(w, r, http.StatusOK, api.ReportUploadResponse{
		Report:  adapters.MapRecognizedReportDomainToApi(outcome.Report, false),
		Merged:  append([]string{}, outcome.Merged...),
		Summary: adapters.MapSummaryDomainToApi(outcome.Summary),
		Upload:  adapters.MapReportRefDomainToApi(outcome.Upload),
	})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapUploadStateDomainToApi(h.pipeline.Status()))
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.ErrorKindInput:
		return http.StatusBadRequest
	case domain.ErrorKindExtraction:
		return http.StatusUnprocessableEntity
	case domain.ErrorKindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
