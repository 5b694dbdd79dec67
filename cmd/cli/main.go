package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ecotown/biomarker-atlas/pkg/config"
	"github.com/ecotown/biomarker-atlas/pkg/runtime/app"
	"github.com/ecotown/biomarker-atlas/pkg/runtime/terminal"
	"github.com/ecotown/biomarker-atlas/pkg/runtime/terminal/commands"
	"github.com/ecotown/biomarker-atlas/pkg/services/export"
)

func main() {
	_ = godotenv.Load()

	cli := terminal.NewCLI(terminal.Options{
		Load:   load,
		Output: os.Stdout,
	})

	if err := cli.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func load(ctx context.Context, configPath string) (commands.Dependencies, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return commands.Dependencies{}, fmt.Errorf("failed to load config: %w", err)
	}

	// Diagnostics go to stderr so command output stays clean.
	cfg.Log.Format = "console"
	logger := app.NewLogger(cfg.Log)
	zerolog.DefaultContextLogger = &logger
	ctx = logger.WithContext(ctx)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return commands.Dependencies{}, fmt.Errorf("failed to initialize services: %w", err)
	}

	return commands.Dependencies{
		Catalog:    a.Catalog,
		Classifier: a.Classifier,
		Pipeline:   a.Pipeline,
		Records:    a.Store,
		Aggregator: a.Aggregator,
		Exporter:   a.Exporter,
		ExportDir:  cfg.Export.Dir,
		S3Bucket:   cfg.Export.S3Bucket,
		S3Prefix:   cfg.Export.S3Prefix,
		NewS3Sink: func(ctx context.Context, bucket, prefix string) (export.Sink, error) {
			return export.NewS3SinkFromEnv(ctx, bucket, prefix)
		},
	}, nil
}
