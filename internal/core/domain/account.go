package domain

import "fmt"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// IsDebitNormal reports whether balances of this type grow with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// AccountRole is a coarse semantic tag used to resolve template accounts.
type AccountRole string

const (
	RoleCash       AccountRole = "CASH"
	RoleBank       AccountRole = "BANK"
	RoleSales      AccountRole = "SALES"
	RolePurchase   AccountRole = "PURCHASE"
	RoleReceivable AccountRole = "AR"
	RolePayable    AccountRole = "AP"
	RoleOwner      AccountRole = "OWNER"
)

// AllRoles lists every role a fully provisioned company maps to exactly one account.
var AllRoles = []AccountRole{RoleCash, RoleBank, RoleSales, RolePurchase, RoleReceivable, RolePayable, RoleOwner}

// ParseAccountRole validates a role string.
func ParseAccountRole(s string) (AccountRole, error) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown account role %q", s)
}

// Account represents a financial account within a company's chart of accounts.
// It carries no balance; balances are always derived from posted entries.
type Account struct {
	AccountID   string       `json:"accountID"`
	CompanyID   string       `json:"companyID"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	AccountType AccountType  `json:"accountType"`
	Role        *AccountRole `json:"role,omitempty"`
	IsActive    bool         `json:"isActive"`
	AuditFields
}
