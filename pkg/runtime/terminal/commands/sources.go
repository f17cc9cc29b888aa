package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/blocks/pkg/services/cost"
	"github.com/spf13/cobra"
)

func NewSourcesCmd(registry cost.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the registered aggregate sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Aggregate sources:\n%s\n", strings.Join(registry.ListSources(), "\n"))
			return nil
		},
	}
}
