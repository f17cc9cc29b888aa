package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/blocks/pkg/models/api"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/reference"
	"github.com/spf13/cobra"
)

type ValidateCmd struct{}

func NewValidateCmd() *cobra.Command {
	vc := &ValidateCmd{}
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check the references of an assistant response read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  vc.run,
	}
}

func (vc *ValidateCmd) run(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	var resp api.AssistantResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	err = reference.Validate(domain.AssistantResponse{Response: resp.Response, References: resp.References})
	var v *reference.Violation
	if errors.As(err, &v) {
		return fmt.Errorf("invalid response: %s %q", v.Kind, v.Token)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "valid: %d references, %d inline citations\n",
		len(resp.References), len(reference.Extract(resp.Response)))
	return nil
}
