package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Directory = NewAccountDirectoryService(repos.AccountRepo, repos.VoucherRepo)

	container.Draft = NewDraftService(repos.VoucherRepo, repos.AccountRepo, repos.CompanyRepo)

	container.Posting = NewPostingService(repos.VoucherRepo, WithRetryPolicy(RetryPolicy{
		MaxAttempts:     cfg.PostingMaxAttempts,
		InitialInterval: cfg.PostingRetryInitialInterval,
		MaxInterval:     cfg.PostingRetryMaxInterval,
	}))

	container.Reporting = NewReportingService(repos.ReportingRepo,
		WithReportingAccounts(repos.AccountRepo),
		WithReportingCompanies(repos.CompanyRepo),
	)

	return container
}
