// Package templates maps a voucher kind and sub-kind to balanced entries.
// Everything here is pure: no storage access, no clocks, no logging.
package templates

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// Sub-kinds understood by the engine.
const (
	CashSale        = "CASH_SALE"
	CreditSale      = "CREDIT_SALE"
	CashPurchase    = "CASH_PURCHASE"
	CreditPurchase  = "CREDIT_PURCHASE"
	VendorPayment   = "VENDOR_PAYMENT"
	ExpensePayment  = "EXPENSE_PAYMENT"
	OwnerWithdrawal = "OWNER_WITHDRAWAL"
	CashToBank      = "CASH_TO_BANK"
	BankToCash      = "BANK_TO_CASH"
)

// slot names where a leg's account comes from.
type slot struct {
	payment bool
	expense bool
	role    domain.AccountRole
}

var (
	paymentSlot = slot{payment: true}
	expenseSlot = slot{expense: true}
)

func roleSlot(r domain.AccountRole) slot { return slot{role: r} }

type rule struct {
	debit  slot
	credit slot
}

// rules is keyed by kind, then sub-kind. RECEIPT has a single rule under "".
var rules = map[domain.VoucherKind]map[string]rule{
	domain.KindSale: {
		CashSale:   {debit: paymentSlot, credit: roleSlot(domain.RoleSales)},
		CreditSale: {debit: roleSlot(domain.RoleReceivable), credit: roleSlot(domain.RoleSales)},
	},
	domain.KindPurchase: {
		CashPurchase:   {debit: roleSlot(domain.RolePurchase), credit: paymentSlot},
		CreditPurchase: {debit: roleSlot(domain.RolePurchase), credit: roleSlot(domain.RolePayable)},
	},
	domain.KindReceipt: {
		"": {debit: paymentSlot, credit: roleSlot(domain.RoleReceivable)},
	},
	domain.KindPayment: {
		VendorPayment:   {debit: roleSlot(domain.RolePayable), credit: paymentSlot},
		ExpensePayment:  {debit: expenseSlot, credit: paymentSlot},
		OwnerWithdrawal: {debit: roleSlot(domain.RoleOwner), credit: paymentSlot},
	},
	domain.KindContra: {
		CashToBank: {debit: roleSlot(domain.RoleBank), credit: roleSlot(domain.RoleCash)},
		BankToCash: {debit: roleSlot(domain.RoleCash), credit: roleSlot(domain.RoleBank)},
	},
}

// Requirement lists the inputs a (kind, sub-kind) pair needs before entries can be generated.
type Requirement struct {
	Roles    []domain.AccountRole
	Payment  bool
	Expense  bool
	Freeform bool
}

// NormalizeSubKind returns the sub-kind the engine keys on. RECEIPT ignores it.
func NormalizeSubKind(kind domain.VoucherKind, subKind string) string {
	if kind == domain.KindReceipt {
		return ""
	}
	return subKind
}

func lookup(kind domain.VoucherKind, subKind string) (rule, error) {
	byKind, ok := rules[kind]
	if !ok {
		return rule{}, fmt.Errorf("%w: unknown voucher kind %q", apperrors.ErrInvalidTemplateInput, kind)
	}
	r, ok := byKind[NormalizeSubKind(kind, subKind)]
	if !ok {
		return rule{}, fmt.Errorf("%w: sub-kind %q is not valid for %s", apperrors.ErrInvalidTemplateInput, subKind, kind)
	}
	return r, nil
}

// RequirementsFor reports which accounts must be resolved for the pair.
func RequirementsFor(kind domain.VoucherKind, subKind string) (Requirement, error) {
	if kind == domain.KindJournal {
		return Requirement{Freeform: true}, nil
	}
	r, err := lookup(kind, subKind)
	if err != nil {
		return Requirement{}, err
	}
	req := Requirement{}
	for _, s := range []slot{r.debit, r.credit} {
		switch {
		case s.payment:
			req.Payment = true
		case s.expense:
			req.Expense = true
		default:
			req.Roles = append(req.Roles, s.role)
		}
	}
	return req, nil
}

// Generate produces the ordered entries for a voucher. Templated kinds always yield
// exactly one debit followed by one credit of the same amount. JOURNAL returns the
// caller's lines after checking they balance within domain.BalanceEpsilon.
func Generate(kind domain.VoucherKind, subKind string, spec domain.EntrySpec) ([]domain.EntryLine, error) {
	if kind == domain.KindJournal {
		freeform, ok := spec.(domain.FreeformEntries)
		if !ok {
			return nil, fmt.Errorf("%w: JOURNAL vouchers take freeform entries", apperrors.ErrInvalidTemplateInput)
		}
		return generateJournal(freeform)
	}

	r, err := lookup(kind, subKind)
	if err != nil {
		return nil, err
	}
	templated, ok := spec.(domain.TemplatedEntries)
	if !ok {
		return nil, fmt.Errorf("%w: %s vouchers take a templated amount", apperrors.ErrInvalidTemplateInput, kind)
	}
	if !templated.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidTemplateInput, templated.Amount)
	}
	if !accounting.FitsScale(templated.Amount) {
		return nil, fmt.Errorf("%w: amount %s has more than %d decimal places", apperrors.ErrInvalidTemplateInput, templated.Amount, domain.AmountScale)
	}

	debitAccount, err := resolveSlot(r.debit, templated.Accounts)
	if err != nil {
		return nil, err
	}
	creditAccount, err := resolveSlot(r.credit, templated.Accounts)
	if err != nil {
		return nil, err
	}

	return []domain.EntryLine{
		{AccountID: debitAccount, Side: domain.Debit, Amount: templated.Amount},
		{AccountID: creditAccount, Side: domain.Credit, Amount: templated.Amount},
	}, nil
}

func resolveSlot(s slot, accounts domain.ResolvedAccounts) (string, error) {
	switch {
	case s.payment:
		if accounts.Payment == "" {
			return "", fmt.Errorf("%w: payment account is required", apperrors.ErrInvalidTemplateInput)
		}
		return accounts.Payment, nil
	case s.expense:
		if accounts.Expense == "" {
			return "", fmt.Errorf("%w: expense account is required", apperrors.ErrInvalidTemplateInput)
		}
		return accounts.Expense, nil
	}
	id := accounts.Role(s.role)
	if id == "" {
		return "", fmt.Errorf("%w: account for role %s is required", apperrors.ErrInvalidTemplateInput, s.role)
	}
	return id, nil
}

func generateJournal(spec domain.FreeformEntries) ([]domain.EntryLine, error) {
	if len(spec.Lines) < 2 {
		return nil, fmt.Errorf("%w: journal needs at least two lines, got %d", apperrors.ErrInvalidTemplateInput, len(spec.Lines))
	}
	for i, l := range spec.Lines {
		if l.AccountID == "" {
			return nil, fmt.Errorf("%w: journal line %d has no account", apperrors.ErrInvalidTemplateInput, i+1)
		}
	}
	if err := accounting.ValidateEntries(spec.Lines, domain.BalanceEpsilon); err != nil {
		return nil, err
	}
	out := make([]domain.EntryLine, len(spec.Lines))
	copy(out, spec.Lines)
	return out, nil
}
