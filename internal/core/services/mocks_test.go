package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// fakeTx stands in for a pgx transaction. Mocked repositories never call it.
type fakeTx struct {
	pgx.Tx
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByRole(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error) {
	args := m.Called(ctx, companyID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock CompanyRepository ---
type MockCompanyRepository struct {
	mock.Mock
}

var _ portsrepo.CompanyRepositoryFacade = (*MockCompanyRepository)(nil)

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

// --- Mock VoucherRepository ---
type MockVoucherRepository struct {
	mock.Mock
}

var _ portsrepo.VoucherRepositoryWithTx = (*MockVoucherRepository)(nil)

func (m *MockVoucherRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockVoucherRepository) BeginSerializable(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockVoucherRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockVoucherRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.Entry, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchersByCompany(ctx context.Context, companyID string, filter domain.VoucherFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Voucher), returnedNextToken, args.Error(2)
}

func (m *MockVoucherRepository) FindVoucherTypeByKind(ctx context.Context, companyID string, kind domain.VoucherKind) (*domain.VoucherType, error) {
	args := m.Called(ctx, companyID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoucherType), args.Error(1)
}

func (m *MockVoucherRepository) FindVoucherByIDForUpdate(ctx context.Context, tx pgx.Tx, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, tx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so the service cannot mutate the fixture.
	v := *args.Get(0).(*domain.Voucher)
	return &v, args.Error(1)
}

func (m *MockVoucherRepository) FindEntriesByVoucherIDInTx(ctx context.Context, tx pgx.Tx, voucherID string) ([]domain.Entry, error) {
	args := m.Called(ctx, tx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockVoucherRepository) InsertVoucherInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error {
	args := m.Called(ctx, tx, voucher)
	return args.Error(0)
}

func (m *MockVoucherRepository) UpdateVoucherHeaderInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error {
	args := m.Called(ctx, tx, voucher)
	return args.Error(0)
}

func (m *MockVoucherRepository) InsertEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.Entry) error {
	args := m.Called(ctx, tx, entries)
	return args.Error(0)
}

func (m *MockVoucherRepository) DeleteEntriesInTx(ctx context.Context, tx pgx.Tx, voucherID string) error {
	args := m.Called(ctx, tx, voucherID)
	return args.Error(0)
}

func (m *MockVoucherRepository) DeleteVoucherInTx(ctx context.Context, tx pgx.Tx, voucherID string) error {
	args := m.Called(ctx, tx, voucherID)
	return args.Error(0)
}

func (m *MockVoucherRepository) NextVoucherNumberInTx(ctx context.Context, tx pgx.Tx, companyID, voucherTypeID string) (int64, error) {
	args := m.Called(ctx, tx, companyID, voucherTypeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVoucherRepository) MarkPostedInTx(ctx context.Context, tx pgx.Tx, voucherID string, number int64, userID string, postedAt time.Time) error {
	args := m.Called(ctx, tx, voucherID, number, userID, postedAt)
	return args.Error(0)
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) SumPostedBefore(ctx context.Context, companyID string, accountIDs []string, partyID *string, before time.Time) (domain.SideTotals, error) {
	args := m.Called(ctx, companyID, accountIDs, partyID, before)
	return args.Get(0).(domain.SideTotals), args.Error(1)
}

func (m *MockReportingRepository) ListPostedEntries(ctx context.Context, companyID string, accountIDs []string, partyID *string, window domain.DateWindow) ([]domain.PostedEntry, error) {
	args := m.Called(ctx, companyID, accountIDs, partyID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostedEntry), args.Error(1)
}

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, companyID string, window domain.DateWindow) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, companyID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Error(2)
}
