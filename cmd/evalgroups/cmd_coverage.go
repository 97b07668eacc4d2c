package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swiss-ai/evalgroups/internal/coverage"
	"github.com/swiss-ai/evalgroups/internal/generator"
)

func newCoverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage [task|all]...",
		Short: "List available languages and those not assigned to any group",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, logger, err := newGenerator(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if len(args) == 0 {
				args = []string{generator.AllTasks}
			}
			results, err := g.Inspect(args)
			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s: %d available: %s\n", r.Task, len(r.Available), strings.Join(r.Available, ", "))
				if werr := coverage.Write(out, r.Coverage); werr != nil {
					return werr
				}
			}
			return err
		},
	}
}
