package terminal

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecotown/biomarker-atlas/pkg/runtime/terminal/commands"
	"github.com/ecotown/biomarker-atlas/pkg/runtime/terminal/report"
)

// Loader builds the command dependencies from the --config path.
type Loader func(ctx context.Context, configPath string) (commands.Dependencies, error)

// CLI represents the command-line interface
type CLI struct {
	env     *commands.Env
	load    Loader
	output  io.Writer
	rootCmd *cobra.Command

	configPath string
	noColor    bool
}

// Options contain configuration for the CLI
type Options struct {
	Load   Loader
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		env:    &commands.Env{},
		load:   opts.Load,
		output: opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "biomarkers",
		Short:         "Lab report extraction and biomarker history tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := cli.load(cmd.Context(), cli.configPath)
			if err != nil {
				return err
			}
			cli.env.Deps = deps
			cli.env.Reporter = report.NewReporter(report.Options{Output: cli.output, NoColor: cli.noColor})
			return nil
		},
	}
	cmd.SetOut(cli.output)

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&cli.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(commands.NewExtractCmd(cli.env))
	cmd.AddCommand(commands.NewClassifyCmd(cli.env))
	cmd.AddCommand(commands.NewSummaryCmd(cli.env))
	cmd.AddCommand(commands.NewExportCmd(cli.env))
	cmd.AddCommand(commands.NewCatalogCmd(cli.env))

	return cmd
}
