package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// reportingService derives every balance from posted entries. It holds no state.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	companyRepo   portsrepo.CompanyRepositoryFacade
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingAccounts sets the account reader used to locate books.
func WithReportingAccounts(repo portsrepo.AccountReader) ReportingServiceOption {
	return func(s *reportingService) {
		s.accountRepo = repo
	}
}

// WithReportingCompanies sets the company and party reader.
func WithReportingCompanies(repo portsrepo.CompanyRepositoryFacade) ReportingServiceOption {
	return func(s *reportingService) {
		s.companyRepo = repo
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.LedgerReportSvcFacade {
	svc := &reportingService{
		reportingRepo: repo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the LedgerReportSvcFacade interface
var _ portssvc.LedgerReportSvcFacade = (*reportingService)(nil)

func validateWindow(window domain.DateWindow) error {
	if !window.Valid() {
		return fmt.Errorf("%w: window start %s is after its end", apperrors.ErrValidation, window)
	}
	return nil
}

func (s *reportingService) ensureCompany(ctx context.Context, companyID string) error {
	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		return fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	return nil
}

// GetAccountBook returns the book of the account mapped to role.
func (s *reportingService) GetAccountBook(ctx context.Context, companyID string, role domain.AccountRole, window domain.DateWindow) (*domain.LedgerView, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByRole(ctx, companyID, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account is mapped to role %s", apperrors.ErrNotFound, role)
		}
		return nil, fmt.Errorf("failed to find account for role %s: %w", role, err)
	}
	return s.accountBook(ctx, account, window)
}

// GetAccountBookByCode returns the book of the account with the given code.
func (s *reportingService) GetAccountBookByCode(ctx context.Context, companyID string, code string, window domain.DateWindow) (*domain.LedgerView, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account with code %q: %w", code, err)
	}
	return s.accountBook(ctx, account, window)
}

func (s *reportingService) accountBook(ctx context.Context, account *domain.Account, window domain.DateWindow) (*domain.LedgerView, error) {
	view, err := s.deriveLedger(ctx, ledgerQuery{
		companyID:   account.CompanyID,
		subject:     fmt.Sprintf("%s %s", account.Code, account.Name),
		accountIDs:  []string{account.AccountID},
		debitNormal: account.AccountType.IsDebitNormal(),
		opening:     decimal.Zero,
		window:      window,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to derive account book",
			slog.String("account_id", account.AccountID),
			slog.String("window", window.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Account book derived",
		slog.String("account_id", account.AccountID),
		slog.String("window", window.String()),
		slog.Int("row_count", len(view.Rows)))
	return view, nil
}

// GetPartyLedger returns the running, debit-positive balance of a party across its AR/AP accounts.
func (s *reportingService) GetPartyLedger(ctx context.Context, companyID string, partyID string, window domain.DateWindow) (*domain.LedgerView, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}

	party, err := s.companyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}
	if party.CompanyID != companyID {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, apperrors.ErrNotFound)
	}

	roles := party.PartyType.LedgerRoles()
	if len(roles) == 0 {
		return nil, fmt.Errorf("%w: party %s has unknown type %q", apperrors.ErrValidation, partyID, party.PartyType)
	}
	accountIDs := make([]string, 0, len(roles))
	for _, role := range roles {
		account, err := s.accountRepo.FindAccountByRole(ctx, companyID, role)
		if err != nil {
			return nil, fmt.Errorf("failed to find %s account for party ledger: %w", role, err)
		}
		accountIDs = append(accountIDs, account.AccountID)
	}

	view, err := s.deriveLedger(ctx, ledgerQuery{
		companyID:   companyID,
		subject:     party.Name,
		accountIDs:  accountIDs,
		partyID:     &party.PartyID,
		debitNormal: true,
		opening:     party.SignedOpening(),
		window:      window,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to derive party ledger", slog.String("party_id", partyID))
		return nil, err
	}

	s.LogInfo(ctx, "Party ledger derived",
		slog.String("party_id", partyID),
		slog.String("window", window.String()),
		slog.Int("row_count", len(view.Rows)))
	return view, nil
}

type ledgerQuery struct {
	companyID   string
	subject     string
	accountIDs  []string
	partyID     *string
	debitNormal bool
	opening     decimal.Decimal
	window      domain.DateWindow
}

// deriveLedger loads the pre-window totals and the in-window entries concurrently,
// then walks the entries in order keeping a running balance.
func (s *reportingService) deriveLedger(ctx context.Context, q ledgerQuery) (*domain.LedgerView, error) {
	var (
		before  domain.SideTotals
		entries []domain.PostedEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	if q.window.From != nil {
		g.Go(func() error {
			totals, err := s.reportingRepo.SumPostedBefore(gctx, q.companyID, q.accountIDs, q.partyID, *q.window.From)
			if err != nil {
				return fmt.Errorf("failed to sum entries before window: %w", err)
			}
			before = totals
			return nil
		})
	}
	g.Go(func() error {
		rows, err := s.reportingRepo.ListPostedEntries(gctx, q.companyID, q.accountIDs, q.partyID, q.window)
		if err != nil {
			return fmt.Errorf("failed to list entries in window: %w", err)
		}
		entries = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opening := q.opening.
		Add(accounting.SignedAmount(domain.Debit, before.Debit, q.debitNormal)).
		Add(accounting.SignedAmount(domain.Credit, before.Credit, q.debitNormal))

	view := &domain.LedgerView{
		Subject:        q.subject,
		AccountIDs:     q.accountIDs,
		DebitNormal:    q.debitNormal,
		Window:         q.window,
		OpeningBalance: opening,
		OpeningSide:    accounting.SideOf(opening, q.debitNormal),
		Rows:           make([]domain.LedgerRow, 0, len(entries)),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}

	running := opening
	for _, e := range entries {
		debit, credit := decimal.Zero, decimal.Zero
		if e.Side == domain.Debit {
			debit = e.Amount
			view.TotalDebit = view.TotalDebit.Add(e.Amount)
		} else {
			credit = e.Amount
			view.TotalCredit = view.TotalCredit.Add(e.Amount)
		}
		running = running.Add(accounting.SignedAmount(e.Side, e.Amount, q.debitNormal))

		view.Rows = append(view.Rows, domain.LedgerRow{
			VoucherID:     e.VoucherID,
			VoucherNumber: e.VoucherNumber,
			VoucherDate:   e.VoucherDate,
			Kind:          e.Kind,
			SubKind:       e.SubKind,
			Narration:     e.Narration,
			AccountID:     e.AccountID,
			Debit:         debit,
			Credit:        credit,
			Balance:       running,
			BalanceSide:   accounting.SideOf(running, q.debitNormal),
		})
	}

	view.ClosingBalance = running
	view.ClosingSide = accounting.SideOf(running, q.debitNormal)
	return view, nil
}

// GetTrialBalance sums posted entries per account. Without a window every posted entry counts.
func (s *reportingService) GetTrialBalance(ctx context.Context, companyID string, window domain.DateWindow) (*domain.TrialBalance, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, companyID, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("company_id", companyID),
			slog.String("window", window.String()))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	tb := &domain.TrialBalance{
		Window:      window,
		Rows:        rows,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for i := range tb.Rows {
		row := &tb.Rows[i]
		row.Net = row.Debit.Sub(row.Credit)
		if !row.AccountType.IsDebitNormal() {
			row.Net = row.Net.Neg()
		}
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}
	tb.IsBalanced = tb.TotalDebit.Equal(tb.TotalCredit)

	if !tb.IsBalanced {
		// Every posted voucher balances exactly, so this means the entry log was tampered with.
		s.GetLogger(ctx).Warn("Trial balance does not balance",
			slog.String("company_id", companyID),
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("company_id", companyID),
		slog.String("window", window.String()),
		slog.Int("row_count", len(rows)))
	return tb, nil
}

// GetProfitAndLoss reports income and expenses for vouchers dated within [from, to].
func (s *reportingService) GetProfitAndLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.ProfitAndLoss, error) {
	from, to = domain.TruncateToDay(from), domain.TruncateToDay(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: from date %s is after to date %s", apperrors.ErrValidation, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return nil, err
	}

	income, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, companyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve profit and loss data",
			slog.String("company_id", companyID),
			slog.String("from", from.Format(time.DateOnly)),
			slog.String("to", to.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}

	totalIncome := decimal.Zero
	for _, r := range income {
		totalIncome = totalIncome.Add(r.NetAmount)
	}

	totalExpenses := decimal.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.NetAmount)
	}

	report := &domain.ProfitAndLoss{
		From:          from,
		To:            to,
		Income:        income,
		Expenses:      expenses,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetProfit:     totalIncome.Sub(totalExpenses),
	}

	s.LogInfo(ctx, "Profit and loss report generated successfully",
		slog.String("company_id", companyID),
		slog.String("from", from.Format(time.DateOnly)),
		slog.String("to", to.Format(time.DateOnly)),
		slog.Int("income_accounts", len(income)),
		slog.Int("expense_accounts", len(expenses)))
	return report, nil
}
