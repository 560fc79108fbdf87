package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherKind is the transaction category a voucher type represents.
type VoucherKind string

const (
	KindSale     VoucherKind = "SALE"
	KindPurchase VoucherKind = "PURCHASE"
	KindReceipt  VoucherKind = "RECEIPT"
	KindPayment  VoucherKind = "PAYMENT"
	KindContra   VoucherKind = "CONTRA"
	KindJournal  VoucherKind = "JOURNAL"
)

// ParseVoucherKind validates a kind string.
func ParseVoucherKind(s string) (VoucherKind, error) {
	switch k := VoucherKind(s); k {
	case KindSale, KindPurchase, KindReceipt, KindPayment, KindContra, KindJournal:
		return k, nil
	}
	return "", fmt.Errorf("unknown voucher kind %q", s)
}

// VoucherStatus indicates the lifecycle state of a voucher.
type VoucherStatus string

const (
	Draft  VoucherStatus = "DRAFT"
	Posted VoucherStatus = "POSTED"
	// Cancelled is reserved; no operation produces it yet.
	Cancelled VoucherStatus = "CANCELLED"
)

// VoucherType is a company-scoped transaction category. Sequence numbers are
// allocated per voucher type.
type VoucherType struct {
	VoucherTypeID string      `json:"voucherTypeID"`
	CompanyID     string      `json:"companyID"`
	Kind          VoucherKind `json:"kind"`
	Name          string      `json:"name"`
}

// Voucher is a transaction header grouping a balanced set of entries.
// VoucherNumber is set iff Status is Posted.
type Voucher struct {
	VoucherID     string        `json:"voucherID"`
	CompanyID     string        `json:"companyID"`
	VoucherTypeID string        `json:"voucherTypeID"`
	Kind          VoucherKind   `json:"kind"`
	SubKind       string        `json:"subKind"`
	Status        VoucherStatus `json:"status"`
	VoucherDate   time.Time     `json:"voucherDate"`
	Narration     string        `json:"narration"`
	PartyID       *string       `json:"partyID,omitempty"`
	VoucherNumber *int64        `json:"voucherNumber,omitempty"`
	PostedAt      *time.Time    `json:"postedAt,omitempty"`
	PostedBy      *string       `json:"postedBy,omitempty"`
	Entries       []Entry       `json:"entries,omitempty"`
	AuditFields
}

// IsDraft reports whether the voucher can still be regenerated, deleted or posted.
func (v *Voucher) IsDraft() bool {
	return v.Status == Draft
}

// PostResult is returned by a successful post.
type PostResult struct {
	VoucherID     string        `json:"voucherId"`
	VoucherNumber int64         `json:"voucherNumber"`
	Status        VoucherStatus `json:"status"`
}

// EntrySpec is the tagged variant describing how a voucher's entries are produced:
// either TemplatedEntries or FreeformEntries.
type EntrySpec interface {
	isEntrySpec()
}

// ResolvedAccounts holds the account ids a template may draw on.
type ResolvedAccounts struct {
	Payment string
	Expense string
	Roles   map[AccountRole]string
}

// Role returns the account resolved for role, or "".
func (r ResolvedAccounts) Role(role AccountRole) string {
	if r.Roles == nil {
		return ""
	}
	return r.Roles[role]
}

// AccountIDs lists every non-empty account id, without duplicates.
func (r ResolvedAccounts) AccountIDs() []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(r.Roles)+2)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	add(r.Payment)
	add(r.Expense)
	for _, role := range AllRoles {
		add(r.Role(role))
	}
	return ids
}

// TemplatedEntries asks the template engine to derive the entries for an amount.
type TemplatedEntries struct {
	Amount   decimal.Decimal
	Accounts ResolvedAccounts
}

// FreeformEntries carries caller-supplied journal lines.
type FreeformEntries struct {
	Lines []EntryLine
}

func (TemplatedEntries) isEntrySpec() {}
func (FreeformEntries) isEntrySpec()  {}

// VoucherInput is a fully resolved request to create or regenerate a draft.
type VoucherInput struct {
	CompanyID     string
	VoucherTypeID string
	Kind          VoucherKind
	SubKind       string
	VoucherDate   time.Time
	Narration     string
	PartyID       *string
	Entries       EntrySpec
}

// VoucherIntent is the business payload before accounts are resolved.
type VoucherIntent struct {
	CompanyID          string
	Kind               VoucherKind
	SubKind            string
	VoucherDate        time.Time
	Narration          string
	PartyID            *string
	Amount             decimal.Decimal
	PaymentMode        AccountRole // CASH or BANK; ignored when PaymentAccountCode is set
	PaymentAccountCode string
	ExpenseAccountCode string
	Lines              []IntentLine
}

// IntentLine is a journal line addressed by account code.
type IntentLine struct {
	AccountCode string
	Side        EntrySide
	Amount      decimal.Decimal
}

// VoucherFilter narrows a voucher listing. Nil fields match everything.
type VoucherFilter struct {
	Status *VoucherStatus
	Kind   *VoucherKind
}
