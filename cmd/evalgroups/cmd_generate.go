package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swiss-ai/evalgroups/internal/generator"
)

func newGenerateCmd() *cobra.Command {
	var opts generator.Options

	cmd := &cobra.Command{
		Use:   "generate <task|all>...",
		Short: "Generate group files for the given tasks",
		Long: `Generates one group file per requested language group for each task,
keeping only languages with evaluation data on disk. The global group is
written last and references the regional groups that produced a file.
Languages found on disk but missing from every group are reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, logger, err := newGenerator(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			opts.Tasks = args
			results, err := g.Run(cmd.Context(), opts)

			written, changed := 0, 0
			for _, r := range results {
				written += len(r.Written)
				changed += r.Changed()
			}
			if !opts.DryRun {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d task(s), %d document(s), %d changed\n", len(results), written, changed)
			}
			return err
		},
	}
	cmd.Flags().StringSliceVarP(&opts.Groups, "groups", "g", nil, "groups to generate (default: all declared groups and the global group)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print planned documents without writing")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 1, "number of tasks processed in parallel")
	return cmd
}
