package services

// ServiceContainer bundles the service implementations handed to the HTTP
// layer.
type ServiceContainer struct {
	Account    AccountService
	Journal    JournalService
	FiscalYear FiscalYearService
	Statement  StatementService
	Budget     BudgetService
}
