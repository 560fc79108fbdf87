package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus indicates the lifecycle state stored for a voucher.
type VoucherStatus string

// VoucherType represents a row of the voucher_types table.
type VoucherType struct {
	VoucherTypeID string `db:"voucher_type_id"`
	CompanyID     string `db:"company_id"`
	Kind          string `db:"kind"`
	Name          string `db:"name"`
}

// Voucher represents a row of the vouchers table. Kind is joined from voucher_types.
type Voucher struct {
	VoucherID     string         `db:"voucher_id"`
	CompanyID     string         `db:"company_id"`
	VoucherTypeID string         `db:"voucher_type_id"`
	Kind          string         `db:"kind"`
	SubKind       string         `db:"sub_kind"`
	Status        VoucherStatus  `db:"status"`
	VoucherDate   time.Time      `db:"voucher_date"`
	Narration     string         `db:"narration"`
	PartyID       sql.NullString `db:"party_id"`
	VoucherNumber sql.NullInt64  `db:"voucher_number"`
	PostedAt      sql.NullTime   `db:"posted_at"`
	PostedBy      sql.NullString `db:"posted_by"`
	AuditFields
}

// Entry represents a row of the entries table.
type Entry struct {
	EntryID   string          `db:"entry_id"`
	VoucherID string          `db:"voucher_id"`
	AccountID string          `db:"account_id"`
	Side      string          `db:"side"`
	Amount    decimal.Decimal `db:"amount"`
	LineNo    int             `db:"line_no"`
	AuditFields
}
