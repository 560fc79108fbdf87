package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// LedgerBookSvc derives running balances for a single account or a party.
type LedgerBookSvc interface {
	// GetAccountBook returns the book of the account mapped to role.
	GetAccountBook(ctx context.Context, companyID string, role domain.AccountRole, window domain.DateWindow) (*domain.LedgerView, error)

	// GetAccountBookByCode returns the book of the account with the given code.
	GetAccountBookByCode(ctx context.Context, companyID string, code string, window domain.DateWindow) (*domain.LedgerView, error)

	// GetPartyLedger returns the running balance of a customer or supplier.
	GetPartyLedger(ctx context.Context, companyID string, partyID string, window domain.DateWindow) (*domain.LedgerView, error)
}

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// GetTrialBalance sums posted entries per account, optionally within window.
	GetTrialBalance(ctx context.Context, companyID string, window domain.DateWindow) (*domain.TrialBalance, error)

	// GetProfitAndLoss reports income and expenses for a period.
	GetProfitAndLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.ProfitAndLoss, error)
}

// LedgerReportSvcFacade is the whole balance derivation engine.
type LedgerReportSvcFacade interface {
	LedgerBookSvc
	ReportingService
}
