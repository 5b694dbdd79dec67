package patient

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ecotown/biomarker-atlas/pkg/adapters"
	"github.com/ecotown/biomarker-atlas/pkg/handlers"
	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/chart"
	"github.com/ecotown/biomarker-atlas/pkg/services/export"
	"github.com/ecotown/biomarker-atlas/pkg/services/summary"
)

type RecordReader interface {
	Get(ctx context.Context) (domain.PatientRecord, error)
}

type Handler struct {
	records    RecordReader
	aggregator *summary.Aggregator
	charts     *chart.Builder
	exporter   *export.Builder
	now        func() time.Time
}

func NewHandler(
	records RecordReader,
	aggregator *summary.Aggregator,
	charts *chart.Builder,
	exporter *export.Builder,
	now func() time.Time,
) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		records:    records,
		aggregator: aggregator,
		charts:     charts,
		exporter:   exporter,
		now:        now,
	}
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) (domain.PatientRecord, bool) {
	record, err := h.records.Get(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to load patient record")
		handlers.WriteError(w, r, http.StatusInternalServerError, "failed to load patient record", "")
		return domain.PatientRecord{}, false
	}
	return record, true
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	record, ok := h.record(w, r)
	if !ok {
		return
	}
	stats := h.aggregator.Compute(record.Biomarkers)
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapPatientRecordDomainToApi(record, stats))
}

func (h *Handler) ListBiomarkers(w http.ResponseWriter, r *http.Request) {
	record, ok := h.record(w, r)
	if !ok {
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapBiomarkersDomainToApi(record.Biomarkers))
}

func (h *Handler) GetBiomarker(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	record, ok := h.record(w, r)
	if !ok {
		return
	}
	b, found := record.Biomarkers[name]
	if !found {
		handlers.WriteError(w, r, http.StatusNotFound, "biomarker not found", name)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapBiomarkerDomainToApi(b))
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	record, ok := h.record(w, r)
	if !ok {
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapSummaryDomainToApi(h.aggregator.Compute(record.Biomarkers)))
}

func (h *Handler) GetCharts(w http.ResponseWriter, r *http.Request) {
	dateRange, err := chart.ParseDateRange(r.URL.Query().Get("range"))
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, "invalid range", err.Error())
		return
	}
	record, ok := h.record(w, r)
	if !ok {
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, h.charts.Groups(record, dateRange, h.now()))
}

// Export serves the record snapshot as a file download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	record, ok := h.record(w, r)
	if !ok {
		return
	}
	_, filename, data, err := h.exporter.Render(record)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render export")
		handlers.WriteError(w, r, http.StatusInternalServerError, "export failed", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write export")
	}
}
