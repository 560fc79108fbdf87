package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CompanyReader defines read operations for companies.
type CompanyReader interface {
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}

// PartyReader defines read operations for customers and suppliers.
type PartyReader interface {
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)
}

// CompanyRepositoryFacade groups company-scoped master data lookups.
type CompanyRepositoryFacade interface {
	CompanyReader
	PartyReader
}
