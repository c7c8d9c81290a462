package pgrepo

import (
	"context"
	"errors"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/pkg/uow/pguow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, user_id, account_number, account_type, balance, is_active, created_at, updated_at`

type AccountRepository struct {
	conn pguow.DBTX
}

func NewAccountRepository(conn pguow.DBTX) *AccountRepository {
	return &AccountRepository{conn: conn}
}

// CreateAccount вставляет счет. Занятый номер счета - domain.ErrDuplicateKey без прерывания транзакции.
func (r *AccountRepository) CreateAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	row := r.conn.QueryRow(ctx, `
		INSERT INTO accounts (id, user_id, account_number, account_type, balance, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_number) DO NOTHING
		RETURNING `+accountColumns,
		account.ID, account.UserID, account.AccountNumber, string(account.AccountType), account.Balance,
		account.IsActive,
	)
	created, err := scanAccount(row)
	if err != nil {
		return nil, conflictErr(err, "creating account `%s`", account.AccountNumber)
	}
	return created, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	acc, err := scanAccount(r.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		return nil, convertErr(err, "find account by id `%s`", id)
	}
	return acc, nil
}

func (r *AccountRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	acc, err := scanAccount(r.conn.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1`, userID))
	if err != nil {
		return nil, convertErr(err, "find account by user `%s`", userID)
	}
	return acc, nil
}

func (r *AccountRepository) FindByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	acc, err := scanAccount(r.conn.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, accountNumber))
	if err != nil {
		return nil, convertErr(err, "find account by number `%s`", accountNumber)
	}
	return acc, nil
}

// ApplyDelta атомарно меняет баланс, если он не станет отрицательным. Внутри транзакции строка
// остается заблокированной до ее завершения.
func (r *AccountRepository) ApplyDelta(
	ctx context.Context,
	id uuid.UUID,
	delta decimal.Decimal,
) (*domain.Account, error) {
	row := r.conn.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND balance + $2 >= 0
		RETURNING `+accountColumns,
		id, delta,
	)
	acc, err := scanAccount(row)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, convertErr(err, "apply delta to account `%s`", id)
	}

	var exists bool
	if existsErr := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); existsErr != nil {
		return nil, convertErr(existsErr, "apply delta to account `%s`", id)
	}
	if !exists {
		return nil, convertErr(pgx.ErrNoRows, "apply delta to account `%s`", id)
	}
	return nil, domain.ErrInsufficientBalance
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	var accountType string
	err := row.Scan(&a.ID, &a.UserID, &a.AccountNumber, &accountType, &a.Balance, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	a.AccountType = domain.AccountType(accountType)
	return &a, nil
}
