package repositories

// RepositoryProvider bundles all repositories for dependency injection.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryWithTx
	JournalRepo      JournalRepositoryWithTx
	FiscalPeriodRepo FiscalPeriodRepositoryFacade
	OrganizationRepo OrganizationRepository
	UserRepo         UserRepository
	CurrencyRepo     CurrencyRepository
	BillingRepo      BillingRepositoryWithTx
	ReportingRepo    ReportingRepository
}
