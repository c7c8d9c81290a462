package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/pkg/uow/pguow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, sender_account_id, receiver_account_id, amount, type, status, reference, description,
	created_at, completed_at`

type TransactionRepository struct {
	conn pguow.DBTX
}

func NewTransactionRepository(conn pguow.DBTX) *TransactionRepository {
	return &TransactionRepository{conn: conn}
}

// CreateTransaction вставляет транзакцию. Занятый референс - domain.ErrDuplicateKey без прерывания транзакции БД.
func (r *TransactionRepository) CreateTransaction(
	ctx context.Context,
	tx domain.Transaction,
) (*domain.Transaction, error) {
	row := r.conn.QueryRow(ctx, `
		INSERT INTO transactions (id, sender_account_id, receiver_account_id, amount, type, status, reference,
		                          description, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (reference) DO NOTHING
		RETURNING `+transactionColumns,
		tx.ID, tx.SenderAccountID, tx.ReceiverAccountID, tx.Amount, string(tx.Type), string(tx.Status),
		tx.Reference, tx.Description, tx.CreatedAt, tx.CompletedAt,
	)
	created, err := scanTransaction(row)
	if err != nil {
		return nil, conflictErr(err, "creating transaction `%s`", tx.Reference)
	}
	return created, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	tx, err := scanTransaction(r.conn.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		return nil, convertErr(err, "find transaction `%s`", id)
	}
	return tx, nil
}

// ListByAccount возвращает транзакции, где счет отправитель или получатель, новые первыми.
func (r *TransactionRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	page repoargs.Page,
) ([]domain.Transaction, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE sender_account_id = $1 OR receiver_account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		accountID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, convertErr(err, "list transactions of `%s`", accountID)
	}

	txs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		tx, scanErr := scanTransaction(row)
		if scanErr != nil {
			return domain.Transaction{}, scanErr
		}
		return *tx, nil
	})
	if err != nil {
		return nil, convertErr(err, "list transactions of `%s`", accountID)
	}
	return txs, nil
}

func (r *TransactionRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.TransactionStatus,
) (*domain.Transaction, error) {
	row := r.conn.QueryRow(ctx, `
		UPDATE transactions SET status = $2 WHERE id = $1
		RETURNING `+transactionColumns,
		id, string(status),
	)
	tx, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "update transaction status `%s`", id)
	}
	return tx, nil
}

// SummarizeByAccount агрегирует завершенные транзакции счета по типам. Входящие: пополнения счета и
// переводы, где счет получатель. Исходящие: все прочие, где счет отправитель.
func (r *TransactionRepository) SummarizeByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) ([]domain.TransactionSummary, error) {
	rows, err := r.conn.Query(ctx, `
		WITH directed AS (
			SELECT type, amount,
			       (COALESCE(receiver_account_id = $1, FALSE) OR type = 'deposit') AS incoming
			FROM transactions
			WHERE (sender_account_id = $1 OR receiver_account_id = $1) AND status = 'completed'
		)
		SELECT type,
		       COUNT(*) FILTER (WHERE incoming),
		       COALESCE(SUM(amount) FILTER (WHERE incoming), 0),
		       COUNT(*) FILTER (WHERE NOT incoming),
		       COALESCE(SUM(amount) FILTER (WHERE NOT incoming), 0)
		FROM directed
		GROUP BY type
		ORDER BY type`,
		accountID,
	)
	if err != nil {
		return nil, convertErr(err, "summarize transactions of `%s`", accountID)
	}

	summary, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TransactionSummary, error) {
		var s domain.TransactionSummary
		var txType string
		var inTotal, outTotal decimal.Decimal
		scanErr := row.Scan(&txType, &s.IncomingCount, &inTotal, &s.OutgoingCount, &outTotal)
		s.Type = domain.TransactionType(txType)
		s.IncomingTotal = inTotal
		s.OutgoingTotal = outTotal
		return s, scanErr //nolint:wrapcheck
	})
	if err != nil {
		return nil, convertErr(err, "summarize transactions of `%s`", accountID)
	}
	return summary, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var txType, status string
	err := row.Scan(&t.ID, &t.SenderAccountID, &t.ReceiverAccountID, &t.Amount, &txType, &status, &t.Reference,
		&t.Description, &t.CreatedAt, &t.CompletedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	t.Type = domain.TransactionType(txType)
	t.Status = domain.TransactionStatus(status)
	return &t, nil
}
