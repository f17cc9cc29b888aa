package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/blocks/pkg/runtime/terminal/commands"
	"github.com/de-tools/blocks/pkg/runtime/terminal/export"
	"github.com/de-tools/blocks/pkg/services/cost"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env      *commands.Env
	reporter *Reporter
	table    *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Registry cost.Registry
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		env:      &commands.Env{Registry: opts.Registry},
		reporter: NewReporter(opts.Output),
		table:    export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context, args ...string) error {
	if args != nil {
		cli.rootCmd.SetArgs(args)
	}
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "blocks-cli",
		Short:         "Inspect generated cost content and assistant answers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.env.BindFlags(cmd)

	cmd.AddCommand(commands.NewGenerateCmd(cli.env, cli.table))
	cmd.AddCommand(commands.NewAskCmd(cli.env, cli.reporter))
	cmd.AddCommand(commands.NewValidateCmd())
	cmd.AddCommand(commands.NewSourcesCmd(cli.env.Registry))

	return cmd
}
