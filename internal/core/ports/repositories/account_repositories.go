package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountsByIDs retrieves the company's accounts among accountIDs, keyed by ID.
	// Missing IDs are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByRole returns the account mapped to role. With a healthy mapping there is
	// exactly one; otherwise the earliest created account wins.
	FindAccountByRole(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its company-unique code.
	FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)

	// ListAccountsByCompany lists every account of a company ordered by code.
	ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
}
