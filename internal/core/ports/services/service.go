package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Balance            BalanceSvc
	Settlement         SettlementSvc
	Expense            ExpenseSvcFacade
	Loan               LoanSvcFacade
	Contact            ContactSvcFacade
	Category           CategorySvcFacade
	User               UserSvcFacade
	APIToken           APITokenSvc
	TokenService       TokenSvcFacade
	GoogleOAuthHandler GoogleOAuthHandlerSvcFacade
}
