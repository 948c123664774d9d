package services

import (
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/platform/cache"
	"github.com/SscSPs/expense_split_app/internal/platform/config"
	"github.com/SscSPs/expense_split_app/internal/platform/events"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Contact = NewContactService(repos.ContactRepo, container.User)

	// Balance service first: every writer below invalidates its cache
	container.Balance = NewBalanceService(
		repos.BalanceRepo,
		WithBalanceCache(cache.NewBalanceCache(cfg.BalanceCacheSize, cfg.BalanceCacheTTL)),
	)
	container.Settlement = NewSettlementService(
		repos.SettlementRepo,
		container.Balance,
		WithEventPublisher(publisher),
	)

	container.Expense = NewExpenseService(
		repos.ExpenseRepo,
		container.Contact,
		container.Settlement,
		WithExpenseCategoryReader(repos.CategoryRepo),
		WithExpenseBalanceService(container.Balance),
		WithExpenseEventPublisher(publisher),
	)
	container.Loan = NewLoanService(
		repos.LoanRepo,
		container.Contact,
		container.Settlement,
		WithLoanCategoryReader(repos.CategoryRepo),
		WithLoanBalanceService(container.Balance),
		WithLoanEventPublisher(publisher),
	)

	container.APIToken = NewAPITokenService(repos.APITokenRepo, container.User)
	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
