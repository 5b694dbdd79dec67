package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ecotown/biomarker-atlas/pkg/handlers"
	"github.com/ecotown/biomarker-atlas/pkg/handlers/patient"
	"github.com/ecotown/biomarker-atlas/pkg/handlers/reports"
	atlasmiddleware "github.com/ecotown/biomarker-atlas/pkg/server/middleware"
	"github.com/ecotown/biomarker-atlas/pkg/services/chart"
	"github.com/ecotown/biomarker-atlas/pkg/services/export"
	"github.com/ecotown/biomarker-atlas/pkg/services/pipeline"
	"github.com/ecotown/biomarker-atlas/pkg/services/summary"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Pipeline   pipeline.Controller
	Records    patient.RecordReader
	Aggregator *summary.Aggregator
	Charts     *chart.Builder
	Exporter   *export.Builder
	Logger     zerolog.Logger
	Now        func() time.Time
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	MaxUploadBytes  int64
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	reportHandler := reports.NewHandler(deps.Pipeline, config.MaxUploadBytes)
	patientHandler := patient.NewHandler(deps.Records, deps.Aggregator, deps.Charts, deps.Exporter, deps.Now)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(atlasmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)
	router.Use(atlasmiddleware.CORS(config.CORSOrigins))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Post("/api/extract", reportHandler.Extract)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/reports", reportHandler.Upload)
		r.Get("/reports/status", reportHandler.Status)
		r.Get("/patient", patientHandler.GetPatient)
		r.Get("/biomarkers", patientHandler.ListBiomarkers)
		r.Get("/biomarkers/{name}", patientHandler.GetBiomarker)
		r.Get("/summary", patientHandler.GetSummary)
		r.Get("/charts", patientHandler.GetCharts)
		r.Get("/export", patientHandler.Export)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	config.Dependencies.Logger = logger
	router := ConfigureRouter(config)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
