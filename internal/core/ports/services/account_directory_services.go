package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountResolverSvc resolves business roles and codes to accounts within a company.
type AccountResolverSvc interface {
	// ResolveByRole returns the account mapped to role, or apperrors.ErrNotFound.
	ResolveByRole(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error)

	// ResolveByCode returns the account with the given code, or apperrors.ErrNotFound.
	ResolveByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)
}

// VoucherIntentResolverSvc turns a business payload into a resolved voucher input.
type VoucherIntentResolverSvc interface {
	ResolveVoucherIntent(ctx context.Context, intent domain.VoucherIntent) (*domain.VoucherInput, error)
}

// RoleMappingValidatorSvc checks that a company maps every role to exactly one account.
type RoleMappingValidatorSvc interface {
	ValidateRoleMapping(ctx context.Context, companyID string) error
}

// AccountDirectorySvcFacade combines all account directory interfaces
type AccountDirectorySvcFacade interface {
	AccountResolverSvc
	VoucherIntentResolverSvc
	RoleMappingValidatorSvc
}
