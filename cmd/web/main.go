package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ecotown/biomarker-atlas/pkg/config"
	"github.com/ecotown/biomarker-atlas/pkg/runtime/app"
	"github.com/ecotown/biomarker-atlas/pkg/server"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the biomarker atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (environment variables and defaults are used otherwise)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := app.NewLogger(cfg.Log)
	ctx := logger.WithContext(cmd.Context())

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info().
		Str("mode", string(cfg.Extraction.Mode)).
		Int("biomarkers", a.Catalog.Len()).
		Msg("services initialized")

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

	return server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		CORSOrigins:     cfg.Server.CORSOrigins,
		MaxUploadBytes:  cfg.Extraction.MaxUploadBytes(),
		Dependencies: server.Dependencies{
			Pipeline:   a.Pipeline,
			Records:    a.Store,
			Aggregator: a.Aggregator,
			Charts:     a.Charts,
			Exporter:   a.Exporter,
		},
	}).Start()
}
