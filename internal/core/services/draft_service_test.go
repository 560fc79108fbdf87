package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/core/templates"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DraftServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo *MockVoucherRepository
	mockAccountRepo *MockAccountRepository
	mockCompanyRepo *MockCompanyRepository
	service         portssvc.DraftSvcFacade
	ctx             context.Context
	tx              *fakeTx
	now             time.Time
	companyID       string
	userID          string
	accounts        map[string]domain.Account
}

func (suite *DraftServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.now = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	suite.service = services.NewDraftService(suite.mockVoucherRepo, suite.mockAccountRepo, suite.mockCompanyRepo,
		services.WithDraftClock(func() time.Time { return suite.now }))
	suite.ctx = context.Background()
	suite.tx = &fakeTx{}
	suite.companyID = "company-1"
	suite.userID = "user-1"

	suite.accounts = map[string]domain.Account{}
	for _, acc := range []*domain.Account{
		roleAccount(suite.companyID, "acc-cash", "1000", domain.Asset, domain.RoleCash),
		roleAccount(suite.companyID, "acc-sales", "4000", domain.Income, domain.RoleSales),
		roleAccount(suite.companyID, "acc-purchase", "5000", domain.Expense, domain.RolePurchase),
		roleAccount(suite.companyID, "acc-ap", "2000", domain.Liability, domain.RolePayable),
	} {
		suite.accounts[acc.AccountID] = *acc
	}
}

func (suite *DraftServiceTestSuite) cashSaleInput(amount int64) domain.VoucherInput {
	return domain.VoucherInput{
		CompanyID:     suite.companyID,
		VoucherTypeID: "vt-sale",
		Kind:          domain.KindSale,
		SubKind:       templates.CashSale,
		VoucherDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Narration:     "counter sale",
		Entries: domain.TemplatedEntries{
			Amount: decimal.NewFromInt(amount),
			Accounts: domain.ResolvedAccounts{
				Payment: "acc-cash",
				Roles:   map[domain.AccountRole]string{domain.RoleSales: "acc-sales"},
			},
		},
	}
}

func (suite *DraftServiceTestSuite) creditPurchaseInput(amount int64) domain.VoucherInput {
	return domain.VoucherInput{
		CompanyID:     suite.companyID,
		VoucherTypeID: "vt-purchase",
		Kind:          domain.KindPurchase,
		SubKind:       templates.CreditPurchase,
		VoucherDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Entries: domain.TemplatedEntries{
			Amount: decimal.NewFromInt(amount),
			Accounts: domain.ResolvedAccounts{Roles: map[domain.AccountRole]string{
				domain.RolePurchase: "acc-purchase",
				domain.RolePayable:  "acc-ap",
			}},
		},
	}
}

func (suite *DraftServiceTestSuite) expectAccountLookup() {
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.companyID, mock.AnythingOfType("[]string")).Return(suite.accounts, nil).Once()
}

func (suite *DraftServiceTestSuite) expectTx(commit bool) {
	suite.mockVoucherRepo.On("Begin", suite.ctx).Return(suite.tx, nil).Once()
	if commit {
		suite.mockVoucherRepo.On("Commit", suite.ctx, suite.tx).Return(nil).Once()
	} else {
		suite.mockVoucherRepo.On("Rollback", mock.Anything, suite.tx).Return(nil).Once()
	}
}

func (suite *DraftServiceTestSuite) TestCreateDraft_CashSale() {
	suite.expectAccountLookup()
	suite.expectTx(true)

	var inserted []domain.Entry
	suite.mockVoucherRepo.On("InsertVoucherInTx", suite.ctx, suite.tx, mock.MatchedBy(func(v domain.Voucher) bool {
		return v.Status == domain.Draft && v.VoucherNumber == nil && v.CompanyID == suite.companyID
	})).Return(nil).Once()
	suite.mockVoucherRepo.On("InsertEntriesInTx", suite.ctx, suite.tx, mock.AnythingOfType("[]domain.Entry")).
		Run(func(args mock.Arguments) { inserted = args.Get(2).([]domain.Entry) }).
		Return(nil).Once()

	voucher, err := suite.service.CreateDraft(suite.ctx, suite.cashSaleInput(5000), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, voucher.Status)
	suite.Nil(voucher.VoucherNumber)
	suite.Equal(suite.userID, voucher.CreatedBy)
	suite.Equal(suite.now, voucher.CreatedAt)

	suite.Require().Len(inserted, 2)
	suite.Equal("acc-cash", inserted[0].AccountID)
	suite.Equal(domain.Debit, inserted[0].Side)
	suite.True(inserted[0].Amount.Equal(decimal.NewFromInt(5000)))
	suite.Equal(1, inserted[0].LineNo)
	suite.Equal("acc-sales", inserted[1].AccountID)
	suite.Equal(domain.Credit, inserted[1].Side)
	suite.Equal(2, inserted[1].LineNo)
	for _, e := range inserted {
		suite.Equal(voucher.VoucherID, e.VoucherID)
	}
	suite.Equal(inserted, voucher.Entries)

	suite.mockVoucherRepo.AssertExpectations(suite.T())
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "Rollback", mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestCreateDraft_InsertFailureRollsBack() {
	suite.expectAccountLookup()
	suite.expectTx(false)
	suite.mockVoucherRepo.On("InsertVoucherInTx", suite.ctx, suite.tx, mock.Anything).Return(nil).Once()
	suite.mockVoucherRepo.On("InsertEntriesInTx", suite.ctx, suite.tx, mock.Anything).Return(assert.AnError).Once()

	_, err := suite.service.CreateDraft(suite.ctx, suite.cashSaleInput(5000), suite.userID)

	suite.ErrorIs(err, assert.AnError)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestCreateDraft_UnbalancedJournalWritesNothing() {
	input := domain.VoucherInput{
		CompanyID:     suite.companyID,
		VoucherTypeID: "vt-journal",
		Kind:          domain.KindJournal,
		VoucherDate:   time.Now(),
		Entries: domain.FreeformEntries{Lines: []domain.EntryLine{
			{AccountID: "acc-purchase", Side: domain.Debit, Amount: decimal.NewFromInt(1000)},
			{AccountID: "acc-cash", Side: domain.Credit, Amount: decimal.NewFromInt(999)},
		}},
	}

	_, err := suite.service.CreateDraft(suite.ctx, input, suite.userID)

	suite.ErrorIs(err, apperrors.ErrUnbalancedEntries)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestCreateDraft_AccountOutsideCompany() {
	foreign := suite.accounts["acc-sales"]
	foreign.CompanyID = "company-2"
	accounts := map[string]domain.Account{
		"acc-cash":  suite.accounts["acc-cash"],
		"acc-sales": foreign,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, suite.companyID, []string{"acc-cash", "acc-sales"}).Return(accounts, nil).Once()

	_, err := suite.service.CreateDraft(suite.ctx, suite.cashSaleInput(10), suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *DraftServiceTestSuite) TestCreateDraft_UnknownParty() {
	input := suite.cashSaleInput(10)
	partyID := "party-x"
	input.PartyID = &partyID
	suite.expectAccountLookup()
	suite.mockCompanyRepo.On("FindPartyByID", suite.ctx, partyID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateDraft(suite.ctx, input, suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *DraftServiceTestSuite) TestCreateDraft_InvalidTemplateInput() {
	input := suite.cashSaleInput(0)

	_, err := suite.service.CreateDraft(suite.ctx, input, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidTemplateInput)
}

func (suite *DraftServiceTestSuite) TestUpdateDraft_RegeneratesEntries() {
	existing := &domain.Voucher{
		VoucherID:     "v-1",
		CompanyID:     suite.companyID,
		VoucherTypeID: "vt-sale",
		Kind:          domain.KindSale,
		SubKind:       templates.CashSale,
		Status:        domain.Draft,
	}
	suite.expectAccountLookup()
	suite.expectTx(true)
	suite.mockVoucherRepo.On("FindVoucherByIDForUpdate", suite.ctx, suite.tx, "v-1").Return(existing, nil).Once()
	suite.mockVoucherRepo.On("DeleteEntriesInTx", suite.ctx, suite.tx, "v-1").Return(nil).Once()
	suite.mockVoucherRepo.On("InsertEntriesInTx", suite.ctx, suite.tx, mock.MatchedBy(func(entries []domain.Entry) bool {
		return len(entries) == 2 && entries[0].AccountID == "acc-purchase" && entries[1].AccountID == "acc-ap" &&
			entries[0].Amount.Equal(decimal.NewFromInt(3000))
	})).Return(nil).Once()
	suite.mockVoucherRepo.On("UpdateVoucherHeaderInTx", suite.ctx, suite.tx, mock.MatchedBy(func(v domain.Voucher) bool {
		return v.Kind == domain.KindPurchase && v.VoucherTypeID == "vt-purchase" && v.LastUpdatedBy == suite.userID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateDraft(suite.ctx, "v-1", suite.creditPurchaseInput(3000), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.KindPurchase, updated.Kind)
	suite.Len(updated.Entries, 2)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestUpdateDraft_PostedVoucherIsImmutable() {
	number := int64(1)
	posted := &domain.Voucher{VoucherID: "v-1", CompanyID: suite.companyID, Status: domain.Posted, VoucherNumber: &number}
	suite.expectTx(false)
	suite.mockVoucherRepo.On("FindVoucherByIDForUpdate", suite.ctx, suite.tx, "v-1").Return(posted, nil).Once()

	_, err := suite.service.UpdateDraft(suite.ctx, "v-1", suite.cashSaleInput(10), suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "DeleteEntriesInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "InsertEntriesInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestUpdateDraft_StateCheckedBeforePayload() {
	unbalanced := domain.VoucherInput{
		CompanyID:     suite.companyID,
		VoucherTypeID: "vt-journal",
		Kind:          domain.KindJournal,
		VoucherDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Entries: domain.FreeformEntries{Lines: []domain.EntryLine{
			{AccountID: "acc-purchase", Side: domain.Debit, Amount: decimal.NewFromInt(1000)},
			{AccountID: "acc-cash", Side: domain.Credit, Amount: decimal.NewFromInt(999)},
		}},
	}
	number := int64(4)

	tests := []struct {
		name    string
		voucher *domain.Voucher
		findErr error
		wantErr error
	}{
		{"posted voucher", &domain.Voucher{VoucherID: "v-1", CompanyID: suite.companyID, Status: domain.Posted, VoucherNumber: &number}, nil, apperrors.ErrInvalidState},
		{"missing voucher", nil, apperrors.ErrNotFound, apperrors.ErrNotFound},
		{"draft voucher", &domain.Voucher{VoucherID: "v-1", CompanyID: suite.companyID, Status: domain.Draft}, nil, apperrors.ErrUnbalancedEntries},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.expectTx(false)
			if tt.voucher == nil {
				suite.mockVoucherRepo.On("FindVoucherByIDForUpdate", suite.ctx, suite.tx, "v-1").Return(nil, tt.findErr).Once()
			} else {
				suite.mockVoucherRepo.On("FindVoucherByIDForUpdate", suite.ctx, suite.tx, "v-1").Return(tt.voucher, nil).Once()
			}

			_, err := suite.service.UpdateDraft(suite.ctx, "v-1", unbalanced, suite.userID)

			suite.ErrorIs(err, tt.wantErr)
			suite.mockVoucherRepo.AssertNotCalled(suite.T(), "DeleteEntriesInTx", mock.Anything, mock.Anything, mock.Anything)
			suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything, mock.Anything)
			suite.mockVoucherRepo.AssertExpectations(suite.T())
		})
	}
}

func (suite *DraftServiceTestSuite) TestCreateDraft_RejectsAmountsBeyondStoredScale() {
	input := domain.VoucherInput{
		CompanyID:     suite.companyID,
		VoucherTypeID: "vt-journal",
		Kind:          domain.KindJournal,
		VoucherDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Entries: domain.FreeformEntries{Lines: []domain.EntryLine{
			{AccountID: "acc-purchase", Side: domain.Debit, Amount: decimal.RequireFromString("1.00005")},
			{AccountID: "acc-purchase", Side: domain.Debit, Amount: decimal.RequireFromString("1.00005")},
			{AccountID: "acc-cash", Side: domain.Credit, Amount: decimal.RequireFromString("2.0001")},
		}},
	}

	_, err := suite.service.CreateDraft(suite.ctx, input, suite.userID)

	suite.ErrorIs(err, apperrors.ErrUnbalancedEntries)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *DraftServiceTestSuite) TestDeleteDraft() {
	tests := []struct {
		name    string
		voucher *domain.Voucher
		findErr error
		wantErr error
	}{
		{"draft is deleted", &domain.Voucher{VoucherID: "v-1", CompanyID: suite.companyID, Status: domain.Draft}, nil, nil},
		{"posted is rejected", &domain.Voucher{VoucherID: "v-1", CompanyID: suite.companyID, Status: domain.Posted}, nil, apperrors.ErrInvalidState},
		{"other company is hidden", &domain.Voucher{VoucherID: "v-1", CompanyID: "company-2", Status: domain.Draft}, nil, apperrors.ErrNotFound},
		{"missing voucher", nil, apperrors.ErrNotFound, apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.expectTx(tt.wantErr == nil)
			if tt.voucher != nil {
				suite.mockVoucherRepo.On("FindVoucherByIDForUpdate", suite.ctx, suite.tx, "v-1").Return(tt.voucher, nil).Once()
			} else {
				suite.mockVoucherRepo.On("FindVoucherByIDForUpdate", suite.ctx, suite.tx, "v-1").Return(nil, tt.findErr).Once()
			}
			if tt.wantErr == nil {
				suite.mockVoucherRepo.On("DeleteEntriesInTx", suite.ctx, suite.tx, "v-1").Return(nil).Once()
				suite.mockVoucherRepo.On("DeleteVoucherInTx", suite.ctx, suite.tx, "v-1").Return(nil).Once()
			}

			err := suite.service.DeleteDraft(suite.ctx, suite.companyID, "v-1", suite.userID)

			if tt.wantErr == nil {
				suite.NoError(err)
			} else {
				suite.ErrorIs(err, tt.wantErr)
				suite.mockVoucherRepo.AssertNotCalled(suite.T(), "DeleteVoucherInTx", mock.Anything, mock.Anything, mock.Anything)
			}
			suite.mockVoucherRepo.AssertExpectations(suite.T())
		})
	}
}

func (suite *DraftServiceTestSuite) TestGetVoucher() {
	voucher := &domain.Voucher{VoucherID: "v-1", CompanyID: suite.companyID, Status: domain.Draft}
	entries := []domain.Entry{{EntryID: "e-1", VoucherID: "v-1", LineNo: 1}, {EntryID: "e-2", VoucherID: "v-1", LineNo: 2}}
	suite.mockVoucherRepo.On("FindVoucherByID", suite.ctx, "v-1").Return(voucher, nil).Once()
	suite.mockVoucherRepo.On("FindEntriesByVoucherID", suite.ctx, "v-1").Return(entries, nil).Once()

	got, err := suite.service.GetVoucher(suite.ctx, suite.companyID, "v-1")

	suite.Require().NoError(err)
	suite.Equal(entries, got.Entries)

	suite.mockVoucherRepo.On("FindVoucherByID", suite.ctx, "v-2").Return(&domain.Voucher{VoucherID: "v-2", CompanyID: "company-2"}, nil).Once()
	_, err = suite.service.GetVoucher(suite.ctx, suite.companyID, "v-2")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DraftServiceTestSuite) TestListVouchers_DefaultsAndFilter() {
	status := domain.Posted
	filter := domain.VoucherFilter{Status: &status}
	vouchers := []domain.Voucher{{VoucherID: "v-1", CompanyID: suite.companyID, Status: domain.Posted}}
	suite.mockVoucherRepo.On("ListVouchersByCompany", suite.ctx, suite.companyID, filter, 20, (*string)(nil)).Return(vouchers, "next", nil).Once()

	resp, err := suite.service.ListVouchers(suite.ctx, suite.companyID, dto.ListVouchersParams{Status: "POSTED"})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Vouchers, 1)
	suite.Equal("v-1", resp.Vouchers[0].VoucherID)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next", *resp.NextToken)
}

func TestDraftServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DraftServiceTestSuite))
}
