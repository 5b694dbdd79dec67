package commands

import (
	"context"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/runtime/terminal/report"
	"github.com/ecotown/biomarker-atlas/pkg/services/catalog"
	"github.com/ecotown/biomarker-atlas/pkg/services/classify"
	"github.com/ecotown/biomarker-atlas/pkg/services/export"
	"github.com/ecotown/biomarker-atlas/pkg/services/pipeline"
	"github.com/ecotown/biomarker-atlas/pkg/services/summary"
)

type RecordReader interface {
	Get(ctx context.Context) (domain.PatientRecord, error)
}

type Dependencies struct {
	Catalog    *catalog.Catalog
	Classifier *classify.Classifier
	Pipeline   pipeline.Controller
	Records    RecordReader
	Aggregator *summary.Aggregator
	Exporter   *export.Builder

	ExportDir string
	S3Bucket  string
	S3Prefix  string
	// NewS3Sink opens the bucket sink used by export --s3-bucket.
	NewS3Sink func(ctx context.Context, bucket, prefix string) (export.Sink, error)
}

// Env is shared by all commands. Deps is filled in by the root command before
// any subcommand runs.
type Env struct {
	Deps     Dependencies
	Reporter *report.Reporter
}
