package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecotown/biomarker-atlas/pkg/services/export"
)

type ExportCmd struct {
	env      *Env
	outDir   string
	s3Bucket string
	s3Prefix string
}

func NewExportCmd(env *Env) *cobra.Command {
	ec := &ExportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the patient record snapshot to a directory or an S3 bucket",
		Args:  cobra.NoArgs,
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.outDir, "out", "", "Directory to write the export to (defaults to export.dir)")
	cmd.Flags().StringVar(&ec.s3Bucket, "s3-bucket", "", "Upload the export to this S3 bucket instead of a directory")
	cmd.Flags().StringVar(&ec.s3Prefix, "s3-prefix", "", "Key prefix inside the bucket (defaults to export.s3_prefix)")

	return cmd
}

func (ec *ExportCmd) sink(cmd *cobra.Command) (export.Sink, error) {
	deps := ec.env.Deps
	bucket := ec.s3Bucket
	if bucket == "" && !cmd.Flags().Changed("out") {
		bucket = deps.S3Bucket
	}
	if bucket != "" {
		prefix := ec.s3Prefix
		if prefix == "" {
			prefix = deps.S3Prefix
		}
		if deps.NewS3Sink == nil {
			return nil, fmt.Errorf("s3 export is not configured")
		}
		return deps.NewS3Sink(cmd.Context(), bucket, prefix)
	}

	dir := ec.outDir
	if dir == "" {
		dir = deps.ExportDir
	}
	return export.FileSink{Dir: dir}, nil
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	deps := ec.env.Deps

	record, err := deps.Records.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load patient record: %w", err)
	}
	_, filename, data, err := deps.Exporter.Render(record)
	if err != nil {
		return err
	}

	sink, err := ec.sink(cmd)
	if err != nil {
		return fmt.Errorf("failed to open export sink: %w", err)
	}
	location, err := sink.Write(ctx, filename, data)
	if err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return ec.env.Reporter.Exported(location)
}
