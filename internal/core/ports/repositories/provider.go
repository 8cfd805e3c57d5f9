package repositories

// RepositoryProvider bundles the concrete repository implementations handed
// to the service layer.
type RepositoryProvider struct {
	AccountRepo    AccountRepository
	JournalRepo    JournalRepository
	FiscalYearRepo FiscalYearRepository
	StatementRepo  StatementRepository
	BudgetRepo     BudgetRepository
}
