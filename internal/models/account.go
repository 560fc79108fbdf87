package models

import "database/sql"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account represents a row of the accounts table.
type Account struct {
	AccountID   string         `db:"account_id"`
	CompanyID   string         `db:"company_id"`
	Code        string         `db:"code"`
	Name        string         `db:"name"`
	AccountType AccountType    `db:"account_type"`
	Role        sql.NullString `db:"role"` // Nullable
	IsActive    bool           `db:"is_active"`
	AuditFields
}
