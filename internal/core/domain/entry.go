package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide indicates whether an entry is a Debit or a Credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// Valid reports whether s is DEBIT or CREDIT.
func (s EntrySide) Valid() bool {
	return s == Debit || s == Credit
}

// EntryLine is one leg produced by the template engine, before it is persisted.
type EntryLine struct {
	AccountID string          `json:"accountID"`
	Side      EntrySide       `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
}

// Entry is a persisted leg of a voucher. Amount is always positive.
type Entry struct {
	EntryID   string          `json:"entryID"`
	VoucherID string          `json:"voucherID"`
	AccountID string          `json:"accountID"`
	Side      EntrySide       `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
	LineNo    int             `json:"lineNo"`
	AuditFields
}

// Line strips persistence details from the entry.
func (e Entry) Line() EntryLine {
	return EntryLine{AccountID: e.AccountID, Side: e.Side, Amount: e.Amount}
}

// EntryLines converts persisted entries to lines, keeping order.
func EntryLines(entries []Entry) []EntryLine {
	lines := make([]EntryLine, len(entries))
	for i, e := range entries {
		lines[i] = e.Line()
	}
	return lines
}

// PostedEntry is an entry of a POSTED voucher joined with the header fields
// the ledgers print.
type PostedEntry struct {
	EntryID       string
	VoucherID     string
	VoucherNumber int64
	VoucherDate   time.Time
	Kind          VoucherKind
	SubKind       string
	Narration     string
	AccountID     string
	Side          EntrySide
	Amount        decimal.Decimal
	LineNo        int
}

// SideTotals is a pair of debit and credit sums.
type SideTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}
