package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSide labels a balance as debit or credit.
type BalanceSide string

const (
	SideDR BalanceSide = "DR"
	SideCR BalanceSide = "CR"
)

// LedgerRow is one posted entry with the running balance after it.
type LedgerRow struct {
	VoucherID     string          `json:"voucherID"`
	VoucherNumber int64           `json:"voucherNumber"`
	VoucherDate   time.Time       `json:"voucherDate"`
	Kind          VoucherKind     `json:"kind"`
	SubKind       string          `json:"subKind"`
	Narration     string          `json:"narration"`
	AccountID     string          `json:"accountID"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
	BalanceSide   BalanceSide     `json:"balanceSide"`
}

// LedgerView is an account book or a party ledger over a window.
// Balances are signed in the orientation described by DebitNormal.
type LedgerView struct {
	Subject        string          `json:"subject"`
	AccountIDs     []string        `json:"accountIDs"`
	DebitNormal    bool            `json:"debitNormal"`
	Window         DateWindow      `json:"-"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	OpeningSide    BalanceSide     `json:"openingSide"`
	Rows           []LedgerRow     `json:"rows"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	ClosingSide    BalanceSide     `json:"closingSide"`
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Net         decimal.Decimal `json:"net"`
}

// TrialBalance aggregates posted debits and credits per account.
type TrialBalance struct {
	Window      DateWindow        `json:"-"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// ProfitAndLoss represents a profit and loss report for a window.
type ProfitAndLoss struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Income        []AccountAmount `json:"income"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}
