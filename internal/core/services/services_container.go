package services

import (
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/quintalabs/bizcore/internal/core/ports/services"
	"github.com/quintalabs/bizcore/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Initialize organization service first since other services depend on its authorizer
	container.Organization = NewOrganizationService(
		repos.OrganizationRepo,
		repos.CurrencyRepo,
	)
	authorizer := portssvc.OrganizationAuthorizerSvc(container.Organization)

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Account = NewAccountService(repos.AccountRepo, repos.CurrencyRepo, authorizer)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.CurrencyRepo, repos.FiscalPeriodRepo, authorizer)
	container.FiscalPeriod = NewFiscalPeriodService(repos.FiscalPeriodRepo, authorizer)
	container.Billing = NewBillingService(repos.BillingRepo, authorizer)
	container.Reporting = NewReportingService(repos.ReportingRepo, authorizer)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	return container
}
