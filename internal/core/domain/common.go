package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// BalanceEpsilon is the tolerance allowed between debit and credit totals of a draft.
// Posting ignores it and requires exact equality.
var BalanceEpsilon = decimal.New(1, -3)

// AmountScale is the number of decimal places an amount column stores.
const AmountScale int32 = 4

const dateLayout = "2006-01-02"

// DateWindow is an optional, day-granular reporting window. Both bounds are inclusive.
type DateWindow struct {
	From *time.Time
	To   *time.Time
}

// NewDateWindow truncates the given bounds to calendar days.
func NewDateWindow(from, to *time.Time) DateWindow {
	w := DateWindow{}
	if from != nil {
		d := TruncateToDay(*from)
		w.From = &d
	}
	if to != nil {
		d := TruncateToDay(*to)
		w.To = &d
	}
	return w
}

// Valid reports whether From is not after To.
func (w DateWindow) Valid() bool {
	if w.From == nil || w.To == nil {
		return true
	}
	return !w.From.After(*w.To)
}

// String renders the window for logs.
func (w DateWindow) String() string {
	from, to := "-", "-"
	if w.From != nil {
		from = w.From.Format(dateLayout)
	}
	if w.To != nil {
		to = w.To.Format(dateLayout)
	}
	return from + ".." + to
}

// TruncateToDay drops the clock part of t, keeping its calendar date in UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
