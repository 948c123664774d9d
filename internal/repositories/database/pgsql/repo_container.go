package pgsql

import (
	portsrepo "github.com/SscSPs/expense_split_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:       newPgxUserRepository(dbPool),
		CategoryRepo:   newPgxCategoryRepository(dbPool),
		ContactRepo:    newPgxContactRepository(dbPool),
		ExpenseRepo:    newPgxExpenseRepository(dbPool),
		LoanRepo:       newPgxLoanRepository(dbPool),
		BalanceRepo:    newPgxBalanceRepository(dbPool),
		SettlementRepo: newPgxSettlementRepository(dbPool),
		APITokenRepo:   newPgxAPITokenRepository(dbPool),
	}
}
