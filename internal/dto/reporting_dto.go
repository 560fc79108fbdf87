package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRowResponse is one line of an account book or party ledger.
type LedgerRowResponse struct {
	VoucherID     string          `json:"voucherID"`
	VoucherNumber int64           `json:"voucherNumber"`
	VoucherDate   string          `json:"voucherDate"`
	Kind          string          `json:"kind"`
	SubKind       string          `json:"subKind"`
	Narration     string          `json:"narration"`
	AccountID     string          `json:"accountID"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
	BalanceSide   string          `json:"balanceSide"`
}

// LedgerViewResponse represents an account book or party ledger.
type LedgerViewResponse struct {
	Subject        string              `json:"subject"`
	From           *string             `json:"from,omitempty"`
	To             *string             `json:"to,omitempty"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"`
	OpeningSide    string              `json:"openingSide"`
	Rows           []LedgerRowResponse `json:"rows"`
	Totals         struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	ClosingSide    string          `json:"closingSide"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	From        *string                   `json:"from,omitempty"`
	To          *string                   `json:"to,omitempty"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
	IsBalanced  bool                      `json:"isBalanced"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate      string                  `json:"fromDate"`
	ToDate        string                  `json:"toDate"`
	Income        []AccountAmountResponse `json:"income"`
	Expenses      []AccountAmountResponse `json:"expenses"`
	TotalIncome   decimal.Decimal         `json:"totalIncome"`
	TotalExpenses decimal.Decimal         `json:"totalExpenses"`
	NetProfit     decimal.Decimal         `json:"netProfit"`
}

func formatWindowBounds(w domain.DateWindow) (*string, *string) {
	var from, to *string
	if w.From != nil {
		s := w.From.Format(DateLayout)
		from = &s
	}
	if w.To != nil {
		s := w.To.Format(DateLayout)
		to = &s
	}
	return from, to
}

// ToLedgerViewResponse converts a domain.LedgerView.
func ToLedgerViewResponse(v *domain.LedgerView) LedgerViewResponse {
	resp := LedgerViewResponse{
		Subject:        v.Subject,
		OpeningBalance: v.OpeningBalance,
		OpeningSide:    string(v.OpeningSide),
		Rows:           make([]LedgerRowResponse, len(v.Rows)),
		ClosingBalance: v.ClosingBalance,
		ClosingSide:    string(v.ClosingSide),
	}
	resp.From, resp.To = formatWindowBounds(v.Window)
	resp.Totals.Debit = v.TotalDebit
	resp.Totals.Credit = v.TotalCredit
	for i, r := range v.Rows {
		resp.Rows[i] = LedgerRowResponse{
			VoucherID:     r.VoucherID,
			VoucherNumber: r.VoucherNumber,
			VoucherDate:   r.VoucherDate.Format(DateLayout),
			Kind:          string(r.Kind),
			SubKind:       r.SubKind,
			Narration:     r.Narration,
			AccountID:     r.AccountID,
			Debit:         r.Debit,
			Credit:        r.Credit,
			Balance:       r.Balance,
			BalanceSide:   string(r.BalanceSide),
		}
	}
	return resp
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		Rows:        make([]TrialBalanceRowResponse, len(tb.Rows)),
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		IsBalanced:  tb.IsBalanced,
	}
	resp.From, resp.To = formatWindowBounds(tb.Window)
	for i, r := range tb.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: string(r.AccountType),
			Debit:       r.Debit,
			Credit:      r.Credit,
		}
	}
	return resp
}

func toAccountAmountResponses(amounts []domain.AccountAmount) []AccountAmountResponse {
	out := make([]AccountAmountResponse, len(amounts))
	for i, a := range amounts {
		out[i] = AccountAmountResponse{AccountID: a.AccountID, Code: a.Code, Name: a.Name, Amount: a.NetAmount}
	}
	return out
}

// ToProfitAndLossResponse converts a domain.ProfitAndLoss.
func ToProfitAndLossResponse(p *domain.ProfitAndLoss) ProfitAndLossResponse {
	return ProfitAndLossResponse{
		FromDate:      p.From.Format(DateLayout),
		ToDate:        p.To.Format(DateLayout),
		Income:        toAccountAmountResponses(p.Income),
		Expenses:      toAccountAmountResponses(p.Expenses),
		TotalIncome:   p.TotalIncome,
		TotalExpenses: p.TotalExpenses,
		NetProfit:     p.NetProfit,
	}
}
