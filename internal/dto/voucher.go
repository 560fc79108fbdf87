package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used on the wire.
const DateLayout = "2006-01-02"

// VoucherLineRequest is one freeform JOURNAL line.
type VoucherLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Side        string          `json:"side" binding:"required,entryside"`
	Amount      decimal.Decimal `json:"amount"`
}

// VoucherRequest is the business payload for creating or regenerating a draft.
// Templated kinds use Amount plus the payment/expense fields; JOURNAL uses Lines.
type VoucherRequest struct {
	Kind               string               `json:"kind" binding:"required,voucherkind"`
	SubKind            string               `json:"subKind" binding:"max=64"`
	VoucherDate        string               `json:"voucherDate" binding:"required,datetime=2006-01-02"`
	Narration          string               `json:"narration" binding:"max=500"`
	PartyID            *string              `json:"partyId" binding:"omitempty,uuid"`
	Amount             decimal.Decimal      `json:"amount"`
	PaymentMode        string               `json:"paymentMode" binding:"omitempty,paymentmode"`
	PaymentAccountCode string               `json:"paymentAccountCode"`
	ExpenseAccountCode string               `json:"expenseAccountCode"`
	Lines              []VoucherLineRequest `json:"lines" binding:"omitempty,dive"`
}

// ToIntent converts the request into a domain intent for companyID.
func (r VoucherRequest) ToIntent(companyID string) (domain.VoucherIntent, error) {
	kind, err := domain.ParseVoucherKind(r.Kind)
	if err != nil {
		return domain.VoucherIntent{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	date, err := time.Parse(DateLayout, r.VoucherDate)
	if err != nil {
		return domain.VoucherIntent{}, fmt.Errorf("%w: voucherDate must be YYYY-MM-DD", apperrors.ErrValidation)
	}

	intent := domain.VoucherIntent{
		CompanyID:          companyID,
		Kind:               kind,
		SubKind:            r.SubKind,
		VoucherDate:        date,
		Narration:          r.Narration,
		PartyID:            r.PartyID,
		Amount:             r.Amount,
		PaymentMode:        domain.AccountRole(r.PaymentMode),
		PaymentAccountCode: r.PaymentAccountCode,
		ExpenseAccountCode: r.ExpenseAccountCode,
	}
	for _, l := range r.Lines {
		intent.Lines = append(intent.Lines, domain.IntentLine{
			AccountCode: l.AccountCode,
			Side:        domain.EntrySide(l.Side),
			Amount:      l.Amount,
		})
	}
	return intent, nil
}

// EntryResponse defines the data returned for an entry.
type EntryResponse struct {
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Side      string          `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
	LineNo    int             `json:"lineNo"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID     string          `json:"voucherID"`
	CompanyID     string          `json:"companyID"`
	VoucherTypeID string          `json:"voucherTypeID"`
	Kind          string          `json:"kind"`
	SubKind       string          `json:"subKind"`
	Status        string          `json:"status"`
	VoucherDate   string          `json:"voucherDate"`
	Narration     string          `json:"narration"`
	PartyID       *string         `json:"partyID,omitempty"`
	VoucherNumber *int64          `json:"voucherNumber,omitempty"`
	Entries       []EntryResponse `json:"entries,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
	PostedAt      *time.Time      `json:"postedAt,omitempty"`
	PostedBy      *string         `json:"postedBy,omitempty"`
}

// PostVoucherResponse is returned by the post endpoint.
type PostVoucherResponse struct {
	VoucherID     string `json:"voucherId"`
	VoucherNumber int64  `json:"voucherNumber"`
	Status        string `json:"status"`
}

// DeleteVoucherResponse is returned by the delete endpoint.
type DeleteVoucherResponse struct {
	Deleted bool `json:"deleted"`
}

// ListVouchersParams defines the query parameters for listing vouchers.
type ListVouchersParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
	Status    string  `form:"status" binding:"omitempty,oneof=DRAFT POSTED CANCELLED"`
	Kind      string  `form:"kind" binding:"omitempty,voucherkind"`
}

// Filter converts the query parameters to a repository filter.
func (p ListVouchersParams) Filter() domain.VoucherFilter {
	f := domain.VoucherFilter{}
	if p.Status != "" {
		s := domain.VoucherStatus(p.Status)
		f.Status = &s
	}
	if p.Kind != "" {
		k := domain.VoucherKind(p.Kind)
		f.Kind = &k
	}
	return f
}

// ListVouchersResponse wraps a page of vouchers.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToEntryResponses converts a slice of domain.Entry to []EntryResponse.
func ToEntryResponses(entries []domain.Entry) []EntryResponse {
	if len(entries) == 0 {
		return nil
	}
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = EntryResponse{
			EntryID:   e.EntryID,
			AccountID: e.AccountID,
			Side:      string(e.Side),
			Amount:    e.Amount,
			LineNo:    e.LineNo,
		}
	}
	return responses
}

// ToVoucherResponse converts a domain.Voucher to VoucherResponse DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	return VoucherResponse{
		VoucherID:     v.VoucherID,
		CompanyID:     v.CompanyID,
		VoucherTypeID: v.VoucherTypeID,
		Kind:          string(v.Kind),
		SubKind:       v.SubKind,
		Status:        string(v.Status),
		VoucherDate:   v.VoucherDate.Format(DateLayout),
		Narration:     v.Narration,
		PartyID:       v.PartyID,
		VoucherNumber: v.VoucherNumber,
		Entries:       ToEntryResponses(v.Entries),
		CreatedAt:     v.CreatedAt,
		CreatedBy:     v.CreatedBy,
		LastUpdatedAt: v.LastUpdatedAt,
		LastUpdatedBy: v.LastUpdatedBy,
		PostedAt:      v.PostedAt,
		PostedBy:      v.PostedBy,
	}
}

// ToVoucherResponses converts a slice of domain.Voucher to []VoucherResponse.
func ToVoucherResponses(vouchers []domain.Voucher) []VoucherResponse {
	responses := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		responses[i] = ToVoucherResponse(&vouchers[i])
	}
	return responses
}

// ToPostVoucherResponse converts a domain.PostResult.
func ToPostVoucherResponse(r *domain.PostResult) PostVoucherResponse {
	return PostVoucherResponse{
		VoucherID:     r.VoucherID,
		VoucherNumber: r.VoucherNumber,
		Status:        string(r.Status),
	}
}
