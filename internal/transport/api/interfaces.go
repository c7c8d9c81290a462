package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-bank/internal/core/amortization"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, *domain.Account, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	Profile(ctx context.Context, userID uuid.UUID) (*domain.User, *domain.Account, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, args repoargs.UpdateProfile) (*domain.User, error)
	LinkUPI(ctx context.Context, userID uuid.UUID, upiID string) (*domain.User, error)
	UnlinkUPI(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type LedgerServicer interface {
	Deposit(ctx context.Context, userID uuid.UUID, args service.MoneyArgs) (*domain.Transaction, error)
	Withdraw(ctx context.Context, userID uuid.UUID, args service.MoneyArgs) (*domain.Transaction, error)
	Transfer(ctx context.Context, userID uuid.UUID, args service.TransferArgs) (*domain.Transaction, error)
	Account(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
	History(ctx context.Context, userID uuid.UUID, page repoargs.Page) ([]domain.Transaction, error)
	Get(ctx context.Context, userID, txID uuid.UUID) (*domain.Transaction, error)
	Cancel(ctx context.Context, userID, txID uuid.UUID) (*domain.Transaction, error)
	Summary(ctx context.Context, userID uuid.UUID) ([]domain.TransactionSummary, error)
}

type LoanServicer interface {
	Quote(loanType domain.LoanType, amount decimal.Decimal) (decimal.Decimal, error)
	Calculate(args service.CalculateArgs) (amortization.Schedule, decimal.Decimal, error)
	Apply(ctx context.Context, userID uuid.UUID, args service.ApplyLoanArgs) (*domain.Loan, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error)
	Get(ctx context.Context, userID, loanID uuid.UUID) (*domain.Loan, error)
	Modify(ctx context.Context, userID, loanID uuid.UUID, args service.ModifyLoanArgs) (*domain.Loan, error)
}

type CardServicer interface {
	Issue(ctx context.Context, userID uuid.UUID, args service.IssueCardArgs) (*domain.Card, string, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	Block(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	SetPIN(ctx context.Context, userID, cardID uuid.UUID, pin string) (*domain.Card, error)
}
