package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/spf13/cobra"
)

func newCheckRolesCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "check-roles COMPANY_ID...",
		Short: "Verify that every role maps to exactly one account",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}

			dbPool, err := database.NewPgxPool(cmd.Context(), cfg.DatabaseURL, cfg.DBMaxConns)
			if err != nil {
				return fmt.Errorf("failed to initialize database pool: %w", err)
			}
			defer database.ClosePgxPool(dbPool)

			container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool))

			failed := 0
			for _, companyID := range args {
				err := container.Directory.ValidateRoleMapping(cmd.Context(), companyID)
				switch {
				case err == nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", companyID)
				case errors.Is(err, apperrors.ErrValidation):
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", companyID, err)
				default:
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d companies have an incomplete role mapping", failed, len(args))
			}
			return nil
		},
	}
}
