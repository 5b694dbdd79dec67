package commands

import (
	"github.com/spf13/cobra"
)

func NewCatalogCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the tracked biomarkers and their classification bounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.Reporter.Catalog(env.Deps.Catalog.Definitions())
		},
	}
}
