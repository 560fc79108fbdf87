package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// DraftReaderSvc defines read operations for voucher data
type DraftReaderSvc interface {
	// GetVoucher retrieves a voucher of the company together with its entries.
	GetVoucher(ctx context.Context, companyID string, voucherID string) (*domain.Voucher, error)

	// ListVouchers retrieves a paginated list of vouchers in a company.
	ListVouchers(ctx context.Context, companyID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)
}

// DraftWriterSvc defines the draft lifecycle. Every method is one atomic unit of work.
type DraftWriterSvc interface {
	// CreateDraft persists a new DRAFT voucher with generated entries.
	CreateDraft(ctx context.Context, input domain.VoucherInput, userID string) (*domain.Voucher, error)

	// UpdateDraft rewrites the header and regenerates every entry of a DRAFT voucher.
	UpdateDraft(ctx context.Context, voucherID string, input domain.VoucherInput, userID string) (*domain.Voucher, error)

	// DeleteDraft removes a DRAFT voucher and its entries.
	DeleteDraft(ctx context.Context, companyID string, voucherID string, userID string) error
}

// DraftSvcFacade combines all draft-related service interfaces
type DraftSvcFacade interface {
	DraftReaderSvc
	DraftWriterSvc
}

// PostingSvc finalizes DRAFT vouchers.
type PostingSvc interface {
	// Post transitions a DRAFT voucher to POSTED and assigns its sequence number.
	Post(ctx context.Context, companyID string, voucherID string, userID string) (*domain.PostResult, error)
}
