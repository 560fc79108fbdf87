package mapping

import (
	"database/sql"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelVoucher converts a domain Voucher to a model Voucher
func ToModelVoucher(d domain.Voucher) models.Voucher {
	m := models.Voucher{
		VoucherID:     d.VoucherID,
		CompanyID:     d.CompanyID,
		VoucherTypeID: d.VoucherTypeID,
		Kind:          string(d.Kind),
		SubKind:       d.SubKind,
		Status:        models.VoucherStatus(d.Status),
		VoucherDate:   d.VoucherDate,
		Narration:     d.Narration,
		PartyID:       nullString(d.PartyID),
		PostedBy:      nullString(d.PostedBy),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.VoucherNumber != nil {
		m.VoucherNumber = sql.NullInt64{Int64: *d.VoucherNumber, Valid: true}
	}
	if d.PostedAt != nil {
		m.PostedAt = sql.NullTime{Time: *d.PostedAt, Valid: true}
	}
	return m
}

// ToDomainVoucher converts a model Voucher to a domain Voucher
func ToDomainVoucher(m models.Voucher) domain.Voucher {
	d := domain.Voucher{
		VoucherID:     m.VoucherID,
		CompanyID:     m.CompanyID,
		VoucherTypeID: m.VoucherTypeID,
		Kind:          domain.VoucherKind(m.Kind),
		SubKind:       m.SubKind,
		Status:        domain.VoucherStatus(m.Status),
		VoucherDate:   m.VoucherDate,
		Narration:     m.Narration,
		PartyID:       stringPtr(m.PartyID),
		PostedBy:      stringPtr(m.PostedBy),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.VoucherNumber.Valid {
		n := m.VoucherNumber.Int64
		d.VoucherNumber = &n
	}
	if m.PostedAt.Valid {
		t := m.PostedAt.Time
		d.PostedAt = &t
	}
	return d
}

// ToDomainVoucherSlice converts a slice of model Vouchers to a slice of domain Vouchers
func ToDomainVoucherSlice(ms []models.Voucher) []domain.Voucher {
	ds := make([]domain.Voucher, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainVoucher(m)
	}
	return ds
}

// ToDomainVoucherType converts a model VoucherType to a domain VoucherType
func ToDomainVoucherType(m models.VoucherType) domain.VoucherType {
	return domain.VoucherType{
		VoucherTypeID: m.VoucherTypeID,
		CompanyID:     m.CompanyID,
		Kind:          domain.VoucherKind(m.Kind),
		Name:          m.Name,
	}
}

// ToModelEntry converts a domain Entry to a model Entry
func ToModelEntry(d domain.Entry) models.Entry {
	return models.Entry{
		EntryID:     d.EntryID,
		VoucherID:   d.VoucherID,
		AccountID:   d.AccountID,
		Side:        string(d.Side),
		Amount:      d.Amount,
		LineNo:      d.LineNo,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model Entry to a domain Entry
func ToDomainEntry(m models.Entry) domain.Entry {
	return domain.Entry{
		EntryID:     m.EntryID,
		VoucherID:   m.VoucherID,
		AccountID:   m.AccountID,
		Side:        domain.EntrySide(m.Side),
		Amount:      m.Amount,
		LineNo:      m.LineNo,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEntrySlice converts a slice of model Entries to a slice of domain Entries
func ToDomainEntrySlice(ms []models.Entry) []domain.Entry {
	ds := make([]domain.Entry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEntry(m)
	}
	return ds
}
