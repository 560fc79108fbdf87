package mapping

import (
	"database/sql"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	var role sql.NullString
	if d.Role != nil {
		role = sql.NullString{String: string(*d.Role), Valid: true}
	}
	return models.Account{
		AccountID:   d.AccountID,
		CompanyID:   d.CompanyID,
		Code:        d.Code,
		Name:        d.Name,
		AccountType: models.AccountType(d.AccountType),
		Role:        role,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	var role *domain.AccountRole
	if m.Role.Valid {
		r := domain.AccountRole(m.Role.String)
		role = &r
	}
	return domain.Account{
		AccountID:   m.AccountID,
		CompanyID:   m.CompanyID,
		Code:        m.Code,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		Role:        role,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
