package service

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUPI(ctx context.Context, upiID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, args repoargs.UpdateProfile) (*domain.User, error)
	SetUPI(ctx context.Context, id uuid.UUID, upiID *string) (*domain.User, error)
}

type AccountRepository interface {
	CreateAccount(ctx context.Context, account domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
	FindByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	// ApplyDelta атомарно прибавляет delta к балансу. Если баланс стал бы отрицательным, возвращает
	// domain.ErrInsufficientBalance и ничего не меняет.
	ApplyDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*domain.Account, error)
}

type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, page repoargs.Page) ([]domain.Transaction, error)
	UpdateStatus(
		ctx context.Context,
		id uuid.UUID,
		status domain.TransactionStatus,
	) (*domain.Transaction, error)
	SummarizeByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionSummary, error)
}

type LoanRepository interface {
	CreateLoan(ctx context.Context, loan domain.Loan) (*domain.Loan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error)
	CountByUserAndStatuses(ctx context.Context, userID uuid.UUID, statuses []domain.LoanStatus) (int64, error)
	// UpdateLoan сохраняет кредит, только если его статус в хранилище все еще expected.
	// Иначе domain.ErrRecordNotFound и ничего не меняет.
	UpdateLoan(ctx context.Context, loan domain.Loan, expected domain.LoanStatus) (*domain.Loan, error)
}

type CardRepository interface {
	CreateCard(ctx context.Context, card domain.Card) (*domain.Card, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)
	CountByUserTypeAndStatuses(
		ctx context.Context,
		userID uuid.UUID,
		cardType domain.CardType,
		statuses []domain.CardStatus,
	) (int64, error)
	// UpdateStatus переводит карту в статус to, только если ее текущий статус входит в from.
	// Иначе domain.ErrRecordNotFound.
	UpdateStatus(
		ctx context.Context,
		id uuid.UUID,
		from []domain.CardStatus,
		to domain.CardStatus,
	) (*domain.Card, error)
	// SetPINHash записывает хеш PIN, только если карта активна. Иначе domain.ErrRecordNotFound.
	SetPINHash(ctx context.Context, id uuid.UUID, pinHash string) (*domain.Card, error)
	// FindExpiring возвращает карты в нетерминальных статусах со сроком действия до now.
	FindExpiring(ctx context.Context, now time.Time, limit uint) ([]domain.Card, error)
}
