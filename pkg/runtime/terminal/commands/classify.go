package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func NewClassifyCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <name> <value>",
		Short: "Classify a single biomarker value against the catalog bounds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			def, ok := env.Deps.Catalog.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown biomarker %q", name)
			}
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}
			return env.Reporter.Classification(def.Name, value, def.Unit, env.Deps.Classifier.Classify(def.Name, value))
		},
	}
}
