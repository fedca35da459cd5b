package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-modtree/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "modtree",
		Short:         "Tick hierarchical parameter-modulation trees",
		Long:          `modtree builds the parameter trees described by a YAML layout and recomputes them once per block, printing the modulated values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd(), newValidateCmd())

	return root
}

func loggerFor(cmd *cobra.Command) (*slog.Logger, error) {
	s, _ := cmd.Flags().GetString("log-level")

	level, err := logging.ParseLevel(s)
	if err != nil {
		return nil, err
	}

	return logging.NewWriter(cmd.ErrOrStderr(), level), nil
}
