package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/swiss-ai/evalgroups/internal/yaml"
)

func newCheckCmd() *cobra.Command {
	var quarantine string

	cmd := &cobra.Command{
		Use:   "check <file|glob>...",
		Short: "Validate existing group files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, pattern := range args {
				matches, err := filepath.Glob(pattern)
				if err != nil {
					return fmt.Errorf("pattern %s: %w", pattern, err)
				}
				if len(matches) == 0 {
					matches = []string{pattern}
				}
				for _, path := range matches {
					if err := yaml.ValidateGroupDocumentFile(path); err != nil {
						fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
						failed++
						if quarantine != "" {
							moved, qerr := yaml.Quarantine(quarantine, path)
							if qerr != nil {
								return qerr
							}
							fmt.Fprintf(out, "     moved to %s\n", moved)
						}
						continue
					}
					fmt.Fprintf(out, "ok   %s\n", path)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d invalid group file(s)", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&quarantine, "quarantine", "", "move invalid files into this directory")
	return cmd
}
