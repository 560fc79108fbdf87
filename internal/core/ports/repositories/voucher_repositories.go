package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// VoucherReader defines read operations for voucher data outside a transaction
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher header by its unique identifier.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// FindEntriesByVoucherID retrieves the entries of a voucher in line order.
	FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.Entry, error)

	// ListVouchersByCompany retrieves a page of vouchers, newest first, using token-based pagination.
	ListVouchersByCompany(ctx context.Context, companyID string, filter domain.VoucherFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error)

	// FindVoucherTypeByKind retrieves the company's voucher type for a kind.
	FindVoucherTypeByKind(ctx context.Context, companyID string, kind domain.VoucherKind) (*domain.VoucherType, error)
}

// VoucherTxWriter defines the operations that run inside a caller-owned transaction.
type VoucherTxWriter interface {
	// FindVoucherByIDForUpdate loads and row-locks a voucher header.
	FindVoucherByIDForUpdate(ctx context.Context, tx pgx.Tx, voucherID string) (*domain.Voucher, error)

	// FindEntriesByVoucherIDInTx loads entries through tx.
	FindEntriesByVoucherIDInTx(ctx context.Context, tx pgx.Tx, voucherID string) ([]domain.Entry, error)

	// InsertVoucherInTx inserts a new voucher header.
	InsertVoucherInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error

	// UpdateVoucherHeaderInTx rewrites the editable header fields of a DRAFT voucher.
	UpdateVoucherHeaderInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error

	// InsertEntriesInTx inserts entries in the given order.
	InsertEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.Entry) error

	// DeleteEntriesInTx removes every entry of a voucher.
	DeleteEntriesInTx(ctx context.Context, tx pgx.Tx, voucherID string) error

	// DeleteVoucherInTx removes a DRAFT voucher header.
	DeleteVoucherInTx(ctx context.Context, tx pgx.Tx, voucherID string) error

	// NextVoucherNumberInTx atomically allocates the next number for (company, voucher type).
	NextVoucherNumberInTx(ctx context.Context, tx pgx.Tx, companyID, voucherTypeID string) (int64, error)

	// MarkPostedInTx transitions a DRAFT voucher to POSTED with its number.
	MarkPostedInTx(ctx context.Context, tx pgx.Tx, voucherID string, number int64, userID string, postedAt time.Time) error
}

// VoucherRepositoryFacade combines all voucher-related repository interfaces
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherTxWriter
}

// VoucherRepositoryWithTx extends VoucherRepositoryFacade with transaction capabilities
type VoucherRepositoryWithTx interface {
	VoucherRepositoryFacade
	TransactionManager
}
