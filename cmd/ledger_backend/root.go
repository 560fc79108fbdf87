package main

import (
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/spf13/cobra"
)

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "ledger_backend",
		Short:         "Double-entry ledger engine",
		Long:          "Voucher drafting, serialized posting with gapless numbering, and balances derived from posted entries.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(logger),
		newMigrateCmd(logger),
		newCheckRolesCmd(logger),
	)
	return root
}

// loadConfig wraps config.LoadConfig with the command logger.
func loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		return nil, err
	}
	return cfg, nil
}
