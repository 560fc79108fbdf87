package models

import "github.com/shopspring/decimal"

// Company represents a row of the companies table.
type Company struct {
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	AuditFields
}

// Party represents a row of the parties table.
type Party struct {
	PartyID        string          `db:"party_id"`
	CompanyID      string          `db:"company_id"`
	Name           string          `db:"name"`
	PartyType      string          `db:"party_type"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	OpeningSide    string          `db:"opening_side"`
	AuditFields
}
