package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/templates"
)

// accountDirectoryService resolves roles and codes to accounts and turns business
// intents into voucher inputs the draft lifecycle understands.
type accountDirectoryService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	voucherRepo portsrepo.VoucherReader
}

// NewAccountDirectoryService creates a new account directory.
func NewAccountDirectoryService(accountRepo portsrepo.AccountRepositoryFacade, voucherRepo portsrepo.VoucherReader) portssvc.AccountDirectorySvcFacade {
	return &accountDirectoryService{
		accountRepo: accountRepo,
		voucherRepo: voucherRepo,
	}
}

var _ portssvc.AccountDirectorySvcFacade = (*accountDirectoryService)(nil)

func (s *accountDirectoryService) ResolveByRole(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByRole(ctx, companyID, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account is mapped to role %s in company %s", apperrors.ErrNotFound, role, companyID)
		}
		s.LogError(ctx, err, "Failed to resolve account by role",
			slog.String("company_id", companyID),
			slog.String("role", string(role)))
		return nil, fmt.Errorf("failed to resolve account for role %s: %w", role, err)
	}
	return account, nil
}

func (s *accountDirectoryService) ResolveByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account with code %q in company %s", apperrors.ErrNotFound, code, companyID)
		}
		s.LogError(ctx, err, "Failed to resolve account by code",
			slog.String("company_id", companyID),
			slog.String("code", code))
		return nil, fmt.Errorf("failed to resolve account with code %q: %w", code, err)
	}
	return account, nil
}

// ResolveVoucherIntent resolves the voucher type and only the accounts the
// template for (kind, subKind) actually needs.
func (s *accountDirectoryService) ResolveVoucherIntent(ctx context.Context, intent domain.VoucherIntent) (*domain.VoucherInput, error) {
	if intent.CompanyID == "" {
		return nil, fmt.Errorf("%w: company id is required", apperrors.ErrValidation)
	}

	req, err := templates.RequirementsFor(intent.Kind, intent.SubKind)
	if err != nil {
		return nil, err
	}

	voucherType, err := s.voucherRepo.FindVoucherTypeByKind(ctx, intent.CompanyID, intent.Kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: company %s has no voucher type for %s", apperrors.ErrNotFound, intent.CompanyID, intent.Kind)
		}
		return nil, fmt.Errorf("failed to find voucher type: %w", err)
	}

	input := &domain.VoucherInput{
		CompanyID:     intent.CompanyID,
		VoucherTypeID: voucherType.VoucherTypeID,
		Kind:          intent.Kind,
		SubKind:       intent.SubKind,
		VoucherDate:   domain.TruncateToDay(intent.VoucherDate),
		Narration:     strings.TrimSpace(intent.Narration),
		PartyID:       intent.PartyID,
	}

	if req.Freeform {
		lines, err := s.resolveJournalLines(ctx, intent.CompanyID, intent.Lines)
		if err != nil {
			return nil, err
		}
		input.Entries = domain.FreeformEntries{Lines: lines}
		return input, nil
	}

	accounts := domain.ResolvedAccounts{Roles: make(map[domain.AccountRole]string, len(req.Roles))}
	for _, role := range req.Roles {
		account, err := s.ResolveByRole(ctx, intent.CompanyID, role)
		if err != nil {
			return nil, err
		}
		accounts.Roles[role] = account.AccountID
	}

	if req.Payment {
		account, err := s.resolvePaymentAccount(ctx, intent)
		if err != nil {
			return nil, err
		}
		accounts.Payment = account.AccountID
	}

	if req.Expense {
		if intent.ExpenseAccountCode == "" {
			return nil, fmt.Errorf("%w: %s requires an expense account code", apperrors.ErrInvalidTemplateInput, intent.SubKind)
		}
		account, err := s.ResolveByCode(ctx, intent.CompanyID, intent.ExpenseAccountCode)
		if err != nil {
			return nil, err
		}
		if account.AccountType != domain.Expense {
			return nil, fmt.Errorf("%w: account %q is %s, not an expense account", apperrors.ErrInvalidTemplateInput, account.Code, account.AccountType)
		}
		accounts.Expense = account.AccountID
	}

	input.Entries = domain.TemplatedEntries{Amount: intent.Amount, Accounts: accounts}
	s.LogDebug(ctx, "Voucher intent resolved",
		slog.String("company_id", intent.CompanyID),
		slog.String("kind", string(intent.Kind)),
		slog.String("sub_kind", intent.SubKind),
		slog.Int("account_count", len(accounts.AccountIDs())))
	return input, nil
}

// resolvePaymentAccount prefers an explicit code over the CASH/BANK payment mode.
func (s *accountDirectoryService) resolvePaymentAccount(ctx context.Context, intent domain.VoucherIntent) (*domain.Account, error) {
	if intent.PaymentAccountCode != "" {
		return s.ResolveByCode(ctx, intent.CompanyID, intent.PaymentAccountCode)
	}
	switch intent.PaymentMode {
	case domain.RoleCash, domain.RoleBank:
		return s.ResolveByRole(ctx, intent.CompanyID, intent.PaymentMode)
	case "":
		return nil, fmt.Errorf("%w: a payment mode or payment account code is required", apperrors.ErrInvalidTemplateInput)
	default:
		return nil, fmt.Errorf("%w: payment mode must be CASH or BANK, got %q", apperrors.ErrInvalidTemplateInput, intent.PaymentMode)
	}
}

func (s *accountDirectoryService) resolveJournalLines(ctx context.Context, companyID string, lines []domain.IntentLine) ([]domain.EntryLine, error) {
	byCode := make(map[string]string, len(lines))
	out := make([]domain.EntryLine, 0, len(lines))
	for i, l := range lines {
		if l.AccountCode == "" {
			return nil, fmt.Errorf("%w: journal line %d has no account code", apperrors.ErrInvalidTemplateInput, i+1)
		}
		id, ok := byCode[l.AccountCode]
		if !ok {
			account, err := s.ResolveByCode(ctx, companyID, l.AccountCode)
			if err != nil {
				return nil, err
			}
			id = account.AccountID
			byCode[l.AccountCode] = id
		}
		out = append(out, domain.EntryLine{AccountID: id, Side: l.Side, Amount: l.Amount})
	}
	return out, nil
}

// ValidateRoleMapping checks that every role maps to exactly one account of the company.
func (s *accountDirectoryService) ValidateRoleMapping(ctx context.Context, companyID string) error {
	accounts, err := s.accountRepo.ListAccountsByCompany(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for role check", slog.String("company_id", companyID))
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	counts := make(map[domain.AccountRole]int, len(domain.AllRoles))
	for _, acc := range accounts {
		if acc.Role != nil {
			counts[*acc.Role]++
		}
	}

	var missing, duplicated []string
	for _, role := range domain.AllRoles {
		switch n := counts[role]; {
		case n == 0:
			missing = append(missing, string(role))
		case n > 1:
			duplicated = append(duplicated, fmt.Sprintf("%s(%d)", role, n))
		}
	}
	if len(missing) == 0 && len(duplicated) == 0 {
		s.LogInfo(ctx, "Role mapping is complete", slog.String("company_id", companyID))
		return nil
	}

	sort.Strings(missing)
	sort.Strings(duplicated)
	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "missing roles: "+strings.Join(missing, ", "))
	}
	if len(duplicated) > 0 {
		problems = append(problems, "duplicated roles: "+strings.Join(duplicated, ", "))
	}
	return fmt.Errorf("%w: company %s %s", apperrors.ErrValidation, companyID, strings.Join(problems, "; "))
}
