package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewSummaryCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the summary counts and clinical notes for the patient record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			record, err := env.Deps.Records.Get(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load patient record: %w", err)
			}
			agg := env.Deps.Aggregator
			return env.Reporter.Summary(agg.Compute(record.Biomarkers), agg.Clinical(record.Biomarkers))
		},
	}
}
