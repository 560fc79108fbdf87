package domain

import "github.com/shopspring/decimal"

// Company is the tenant boundary; every account, party and voucher belongs to exactly one.
type Company struct {
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	AuditFields
}

// PartyType classifies a counterparty.
type PartyType string

const (
	PartyCustomer PartyType = "CUSTOMER"
	PartySupplier PartyType = "SUPPLIER"
	PartyBoth     PartyType = "BOTH"
)

// LedgerRoles returns the account roles whose entries make up this party's ledger.
func (t PartyType) LedgerRoles() []AccountRole {
	switch t {
	case PartyCustomer:
		return []AccountRole{RoleReceivable}
	case PartySupplier:
		return []AccountRole{RolePayable}
	case PartyBoth:
		return []AccountRole{RoleReceivable, RolePayable}
	}
	return nil
}

// OpeningSide is the side of a party's opening balance at ledger inception.
type OpeningSide string

const (
	Debtor   OpeningSide = "DEBTOR"
	Creditor OpeningSide = "CREDITOR"
)

// Party is a customer, a supplier, or both. The engine only reads it.
type Party struct {
	PartyID        string          `json:"partyID"`
	CompanyID      string          `json:"companyID"`
	Name           string          `json:"name"`
	PartyType      PartyType       `json:"partyType"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	OpeningSide    OpeningSide     `json:"openingSide"`
	AuditFields
}

// SignedOpening returns the opening balance oriented debit-positive.
func (p Party) SignedOpening() decimal.Decimal {
	if p.OpeningSide == Creditor {
		return p.OpeningBalance.Neg()
	}
	return p.OpeningBalance
}
