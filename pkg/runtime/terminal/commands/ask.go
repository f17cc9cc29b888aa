package commands

import (
	"strings"

	"github.com/de-tools/blocks/pkg/metrics"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/assistant"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type AnswerReporter interface {
	HandleAnswer(resp domain.AssistantResponse) error
}

type AskCmd struct {
	env              *Env
	reporter         AnswerReporter
	recommendationID string
}

func NewAskCmd(env *Env, reporter AnswerReporter) *cobra.Command {
	ac := &AskCmd{env: env, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Ask the assistant a question about the tenant's costs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  ac.run,
	}
	cmd.Flags().StringVar(&ac.recommendationID, "recommendation", "", "Focus the answer on one recommendation id")
	return cmd
}

func (ac *AskCmd) run(cmd *cobra.Command, args []string) error {
	day, err := ac.env.Day()
	if err != nil {
		return err
	}
	rt, err := ac.env.Load(cmd.Context())
	if err != nil {
		return err
	}

	svc := assistant.NewService(
		rt.Generator,
		rt.Source,
		assistant.NewBuilder(rt.Config.Assistant.MaxRecommendations),
		metrics.New(prometheus.NewRegistry()),
	)

	req := domain.QueryRequest{Prompt: strings.Join(args, " ")}
	if ac.recommendationID != "" {
		req.Context = map[string]interface{}{"recommendationId": ac.recommendationID}
	}
	rc := domain.RequestContext{RequestID: uuid.NewString(), TenantID: ac.env.Tenant}

	resp, err := svc.Query(cmd.Context(), rc, day, req)
	if err != nil {
		return err
	}
	return ac.reporter.HandleAnswer(resp)
}
