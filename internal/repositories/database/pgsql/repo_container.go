package pgsql

import (
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	organizationRepo := newPgxOrganizationRepository(dbPool)
	fiscalPeriodRepo := newPgxFiscalPeriodRepository(dbPool)
	billingRepo := newPgxBillingRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		CurrencyRepo:     currencyRepo,
		UserRepo:         userRepo,
		JournalRepo:      journalRepo,
		OrganizationRepo: organizationRepo,
		FiscalPeriodRepo: fiscalPeriodRepo,
		BillingRepo:      billingRepo,
		ReportingRepo:    reportingRepo,
	}
}
