package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountDirectory ---
type MockDirectory struct {
	mock.Mock
}

var _ portssvc.AccountDirectorySvcFacade = (*MockDirectory)(nil)

func (m *MockDirectory) ResolveByRole(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error) {
	args := m.Called(ctx, companyID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockDirectory) ResolveByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockDirectory) ResolveVoucherIntent(ctx context.Context, intent domain.VoucherIntent) (*domain.VoucherInput, error) {
	args := m.Called(ctx, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoucherInput), args.Error(1)
}

func (m *MockDirectory) ValidateRoleMapping(ctx context.Context, companyID string) error {
	args := m.Called(ctx, companyID)
	return args.Error(0)
}

// --- Mock Draft service ---
type MockDraft struct {
	mock.Mock
}

var _ portssvc.DraftSvcFacade = (*MockDraft)(nil)

func (m *MockDraft) GetVoucher(ctx context.Context, companyID string, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, companyID, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockDraft) ListVouchers(ctx context.Context, companyID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListVouchersResponse), args.Error(1)
}

func (m *MockDraft) CreateDraft(ctx context.Context, input domain.VoucherInput, userID string) (*domain.Voucher, error) {
	args := m.Called(ctx, input, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockDraft) UpdateDraft(ctx context.Context, voucherID string, input domain.VoucherInput, userID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID, input, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockDraft) DeleteDraft(ctx context.Context, companyID string, voucherID string, userID string) error {
	args := m.Called(ctx, companyID, voucherID, userID)
	return args.Error(0)
}

// --- Mock Posting service ---
type MockPosting struct {
	mock.Mock
}

var _ portssvc.PostingSvc = (*MockPosting)(nil)

func (m *MockPosting) Post(ctx context.Context, companyID string, voucherID string, userID string) (*domain.PostResult, error) {
	args := m.Called(ctx, companyID, voucherID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostResult), args.Error(1)
}

// --- Mock Reporting service ---
type MockReporting struct {
	mock.Mock
}

var _ portssvc.LedgerReportSvcFacade = (*MockReporting)(nil)

func (m *MockReporting) GetAccountBook(ctx context.Context, companyID string, role domain.AccountRole, window domain.DateWindow) (*domain.LedgerView, error) {
	args := m.Called(ctx, companyID, role, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerView), args.Error(1)
}

func (m *MockReporting) GetAccountBookByCode(ctx context.Context, companyID string, code string, window domain.DateWindow) (*domain.LedgerView, error) {
	args := m.Called(ctx, companyID, code, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerView), args.Error(1)
}

func (m *MockReporting) GetPartyLedger(ctx context.Context, companyID string, partyID string, window domain.DateWindow) (*domain.LedgerView, error) {
	args := m.Called(ctx, companyID, partyID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerView), args.Error(1)
}

func (m *MockReporting) GetTrialBalance(ctx context.Context, companyID string, window domain.DateWindow) (*domain.TrialBalance, error) {
	args := m.Called(ctx, companyID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockReporting) GetProfitAndLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.ProfitAndLoss, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfitAndLoss), args.Error(1)
}
