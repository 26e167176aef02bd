package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account      AccountSvcFacade
	Currency     CurrencySvcFacade
	User         UserSvcFacade
	Journal      JournalSvcFacade
	FiscalPeriod FiscalPeriodSvcFacade
	Organization OrganizationSvcFacade
	Billing      BillingSvcFacade
	Reporting    ReportingSvcFacade
	Token        TokenSvcFacade
	GoogleOAuth  GoogleOAuthHandlerSvcFacade
}
