package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToDomainCompany converts a model Company to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainParty converts a model Party to a domain Party
func ToDomainParty(m models.Party) domain.Party {
	return domain.Party{
		PartyID:        m.PartyID,
		CompanyID:      m.CompanyID,
		Name:           m.Name,
		PartyType:      domain.PartyType(m.PartyType),
		OpeningBalance: m.OpeningBalance,
		OpeningSide:    domain.OpeningSide(m.OpeningSide),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
