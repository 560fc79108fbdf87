package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/jackc/pgx/v5"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// runInTx executes fn inside a transaction opened by begin. The transaction is
// rolled back unless both fn and Commit succeed.
func (s *BaseService) runInTx(ctx context.Context, tm portsrepo.TransactionManager, begin func(context.Context) (pgx.Tx, error), fn func(tx pgx.Tx) error) error {
	tx, err := begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// The request context may already be cancelled; the rollback must still reach the server.
		if rbErr := tm.Rollback(context.WithoutCancel(ctx), tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back transaction")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tm.Commit(ctx, tx); err != nil {
		return err
	}
	committed = true
	return nil
}
