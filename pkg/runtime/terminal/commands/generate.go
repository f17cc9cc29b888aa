package commands

import (
	"fmt"

	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/spf13/cobra"
)

type ContentReporter interface {
	HandleContent(content domain.Content) error
}

type GenerateCmd struct {
	env      *Env
	reporter ContentReporter
}

func NewGenerateCmd(env *Env, reporter ContentReporter) *cobra.Command {
	gc := &GenerateCmd{env: env, reporter: reporter}
	return &cobra.Command{
		Use:   "generate",
		Short: "Print the recommendations, timelines and aggregates of a tenant's day",
		Args:  cobra.NoArgs,
		RunE:  gc.run,
	}
}

func (gc *GenerateCmd) run(cmd *cobra.Command, _ []string) error {
	day, err := gc.env.Day()
	if err != nil {
		return err
	}
	rt, err := gc.env.Load(cmd.Context())
	if err != nil {
		return err
	}

	content, err := rt.Generator.Generate(gc.env.Tenant, day)
	if err != nil {
		return fmt.Errorf("failed to generate content: %w", err)
	}
	aggs, err := rt.Source.Aggregates(cmd.Context(), gc.env.Tenant, day)
	if err != nil {
		return fmt.Errorf("failed to load aggregates from %s: %w", rt.Source.Name(), err)
	}
	content.Aggregates = aggs

	return gc.reporter.HandleContent(content)
}
