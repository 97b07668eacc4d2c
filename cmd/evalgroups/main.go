// Command evalgroups generates language group definitions for evaluation
// tasks from a catalog of regional language groups and task descriptors.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/swiss-ai/evalgroups/internal/generator"
	"github.com/swiss-ai/evalgroups/internal/logging"
	"github.com/swiss-ai/evalgroups/internal/model"
	"github.com/swiss-ai/evalgroups/internal/probe"
)

const version = "1.0.0"

var (
	configPath string
	verbose    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		var verrs *model.ValidationErrors
		if errors.As(err, &verrs) {
			fmt.Fprint(os.Stderr, verrs.FormatStderr())
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "evalgroups",
		Short:         "Generate language group files for evaluation tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (default: search evalgroups.{yaml,toml,json} upwards)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newGenerateCmd(),
		newCoverageCmd(),
		newWatchCmd(),
		newCheckCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig resolves the configuration file from --config or by searching
// the working directory and its ancestors.
func loadConfig() (model.Config, error) {
	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return model.Config{}, fmt.Errorf("get working directory: %w", err)
		}
		path = model.FindConfig(wd)
		if path == "" {
			return model.Config{}, fmt.Errorf("no configuration found, looked for %v (run `evalgroups init`)", model.ConfigFileNames)
		}
	}
	return model.Load(path)
}

// newGenerator loads the configuration and wires a generator writing
// diagnostics to out. The returned logger must be synced by the caller.
func newGenerator(out io.Writer) (*generator.Generator, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewCLI(cfg.Logging.Level, verbose)
	return generator.New(cfg, probe.OSStorage{}, logger, out), logger, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "evalgroups %s\n", version)
		},
	}
}
