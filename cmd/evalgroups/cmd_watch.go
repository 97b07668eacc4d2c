package main

import (
	"github.com/spf13/cobra"

	"github.com/swiss-ai/evalgroups/internal/generator"
)

func newWatchCmd() *cobra.Command {
	var opts generator.WatchOptions

	cmd := &cobra.Command{
		Use:   "watch <task|all>...",
		Short: "Regenerate group files whenever task data changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, logger, err := newGenerator(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			opts.Tasks = args
			return g.Watch(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringSliceVarP(&opts.Groups, "groups", "g", nil, "groups to generate (default: all declared groups and the global group)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", generator.DefaultDebounce, "quiet period before regenerating")
	return cmd
}
