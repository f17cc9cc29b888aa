package main

import (
	"fmt"
	"os"

	"github.com/de-tools/blocks/pkg/runtime/terminal"
	"github.com/de-tools/blocks/pkg/services/cost"
	"github.com/de-tools/blocks/pkg/services/cost/awsce"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Registry: cost.NewRegistry(map[string]cost.SourceFactory{
			cost.MockSourceName: cost.MockSourceFactory,
			cost.AWSSourceName:  awsce.SourceFactory,
		}),
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
