package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportingRepository reads aggregates over POSTED entries only. It never touches a stored balance.
type ReportingRepository interface {
	// SumPostedBefore totals posted entries on accountIDs dated strictly before the given day.
	// A non-nil partyID restricts to vouchers referencing that party.
	SumPostedBefore(ctx context.Context, companyID string, accountIDs []string, partyID *string, before time.Time) (domain.SideTotals, error)

	// ListPostedEntries lists posted entries on accountIDs inside window, ordered by
	// voucher date, voucher creation and line number.
	ListPostedEntries(ctx context.Context, companyID string, accountIDs []string, partyID *string, window domain.DateWindow) ([]domain.PostedEntry, error)

	// GetTrialBalanceData sums posted debits and credits per account inside window.
	GetTrialBalanceData(ctx context.Context, companyID string, window domain.DateWindow) ([]domain.TrialBalanceRow, error)

	// GetProfitAndLossData returns income accounts netted credit-minus-debit and expense
	// accounts netted debit-minus-credit, for vouchers dated within [from, to].
	GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error)
}
