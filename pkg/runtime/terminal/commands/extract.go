package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ecotown/biomarker-atlas/pkg/services/pipeline"
)

func NewExtractCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Run a lab report through the pipeline and print the recognized values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read report: %w", err)
			}

			outcome, err := env.Deps.Pipeline.Process(cmd.Context(), pipeline.Upload{
				Filename: filepath.Base(args[0]),
				Data:     data,
			})
			if err != nil {
				return fmt.Errorf("failed to process %s: %w", args[0], err)
			}
			return env.Reporter.Upload(outcome)
		},
	}
}
