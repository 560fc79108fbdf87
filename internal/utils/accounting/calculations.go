package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the sign convention of a balance orientation to one leg.
// DEBIT -> (+) and CREDIT -> (-) for debit-normal balances, inverted otherwise.
func SignedAmount(side domain.EntrySide, amount decimal.Decimal, debitNormal bool) decimal.Decimal {
	if (side == domain.Debit) == debitNormal {
		return amount
	}
	return amount.Neg()
}

// CalculateSignedAmount applies the correct sign to an entry amount based on the account type.
func CalculateSignedAmount(line domain.EntryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.Valid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	return SignedAmount(line.Side, line.Amount, accountType.IsDebitNormal()), nil
}

// SideOf labels a signed balance as DR or CR for the given orientation.
func SideOf(balance decimal.Decimal, debitNormal bool) domain.BalanceSide {
	if balance.IsNegative() == debitNormal {
		return domain.SideCR
	}
	return domain.SideDR
}

// SumSides totals debit and credit amounts separately.
func SumSides(lines []domain.EntryLine) domain.SideTotals {
	totals := domain.SideTotals{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, l := range lines {
		switch l.Side {
		case domain.Debit:
			totals.Debit = totals.Debit.Add(l.Amount)
		case domain.Credit:
			totals.Credit = totals.Credit.Add(l.Amount)
		}
	}
	return totals
}

// FitsScale reports whether amount is stored without rounding at domain.AmountScale.
func FitsScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(domain.AmountScale))
}

// ValidateEntries checks the structural rules every voucher obeys: at least two
// lines, known sides, strictly positive amounts at the stored scale, and debits
// within epsilon of credits.
func ValidateEntries(lines []domain.EntryLine, epsilon decimal.Decimal) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: a voucher needs at least two entries, got %d", apperrors.ErrUnbalancedEntries, len(lines))
	}

	for i, l := range lines {
		if !l.Side.Valid() {
			return fmt.Errorf("%w: entry %d has invalid side %q", apperrors.ErrUnbalancedEntries, i+1, l.Side)
		}
		if !l.Amount.IsPositive() {
			return fmt.Errorf("%w: entry %d amount must be positive, got %s", apperrors.ErrUnbalancedEntries, i+1, l.Amount)
		}
		if !FitsScale(l.Amount) {
			return fmt.Errorf("%w: entry %d amount %s has more than %d decimal places", apperrors.ErrUnbalancedEntries, i+1, l.Amount, domain.AmountScale)
		}
	}

	totals := SumSides(lines)
	if totals.Debit.Sub(totals.Credit).Abs().GreaterThan(epsilon) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s", apperrors.ErrUnbalancedEntries, totals.Debit, totals.Credit)
	}
	return nil
}

// ValidateExactBalance is ValidateEntries with no tolerance. Posting uses it.
func ValidateExactBalance(lines []domain.EntryLine) error {
	return ValidateEntries(lines, decimal.Zero)
}
