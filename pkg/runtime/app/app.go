// Package app assembles the services shared by the web server and the CLI
// from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ecotown/biomarker-atlas/pkg/config"
	"github.com/ecotown/biomarker-atlas/pkg/services/catalog"
	"github.com/ecotown/biomarker-atlas/pkg/services/chart"
	"github.com/ecotown/biomarker-atlas/pkg/services/classify"
	"github.com/ecotown/biomarker-atlas/pkg/services/export"
	"github.com/ecotown/biomarker-atlas/pkg/services/extract"
	"github.com/ecotown/biomarker-atlas/pkg/services/history"
	"github.com/ecotown/biomarker-atlas/pkg/services/ocr"
	"github.com/ecotown/biomarker-atlas/pkg/services/pipeline"
	"github.com/ecotown/biomarker-atlas/pkg/services/recognize"
	"github.com/ecotown/biomarker-atlas/pkg/services/remote"
	"github.com/ecotown/biomarker-atlas/pkg/services/summary"
	"github.com/ecotown/biomarker-atlas/pkg/store/memory"
)

type App struct {
	Config     *config.Config
	Catalog    *catalog.Catalog
	Classifier *classify.Classifier
	Aggregator *summary.Aggregator
	Store      memory.Store
	Pipeline   *pipeline.DefaultController
	Charts     *chart.Builder
	Exporter   *export.Builder
}

// New builds every service from cfg. The patient record starts from the
// seeded history.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	cat, err := catalog.FromFile(cfg.Catalog.RangesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference ranges: %w", err)
	}

	classifier := classify.NewClassifier(cat)
	aggregator := summary.NewAggregator(cat)
	store := memory.NewStore(memory.SeedRecord(cat))

	merger := history.NewMerger()
	merger.MaxEntries = cfg.History.MaxEntries
	merger.OverwriteMissingFields = cfg.History.OverwriteMissingFields
	merger.DeriveTrend = cfg.History.DeriveTrend

	deps := pipeline.Dependencies{
		Store:          store,
		Classifier:     classifier,
		Merger:         merger,
		Aggregator:     aggregator,
		MaxUploadBytes: cfg.Extraction.MaxUploadBytes(),
	}

	engine, err := extract.NewEngine(cfg.Extraction.Engine)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction engine: %w", err)
	}
	deps.Extractor = extract.NewExtractor(extract.Options{
		Engine:        engine,
		MinTextLength: cfg.Extraction.MinTextLength,
		PageWorkers:   cfg.Extraction.PageWorkers,
	})

	switch cfg.Extraction.Mode {
	case config.ModeRemote:
		deps.Remote = remote.NewClient(cfg.Extraction.RemoteURL, cfg.Extraction.Timeout, classifier)
		logger.Info().Str("url", cfg.Extraction.RemoteURL).Msg("using remote extraction service")
	default:
		recognizer, err := recognize.NewRecognizer(cat)
		if err != nil {
			return nil, fmt.Errorf("failed to build recognizer: %w", err)
		}
		deps.Recognizer = recognizer
		deps.OCR = ocr.NewSimulated(nil)
		logger.Info().Str("engine", cfg.Extraction.Engine).Msg("using local extraction")
	}

	return &App{
		Config:     cfg,
		Catalog:    cat,
		Classifier: classifier,
		Aggregator: aggregator,
		Store:      store,
		Pipeline:   pipeline.NewController(deps),
		Charts:     chart.NewBuilder(cat),
		Exporter:   export.NewBuilder(aggregator),
	}, nil
}

// NewLogger builds the process logger from the log section.
func NewLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
