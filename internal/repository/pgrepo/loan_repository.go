package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/pkg/uow/pguow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const loanColumns = `id, user_id, loan_type, amount, interest_rate, term, monthly_payment, total_amount,
	remaining_balance, purpose, status, approved_at, created_at, updated_at`

type LoanRepository struct {
	conn pguow.DBTX
}

func NewLoanRepository(conn pguow.DBTX) *LoanRepository {
	return &LoanRepository{conn: conn}
}

func (r *LoanRepository) CreateLoan(ctx context.Context, loan domain.Loan) (*domain.Loan, error) {
	row := r.conn.QueryRow(ctx, `
		INSERT INTO loans (id, user_id, loan_type, amount, interest_rate, term, monthly_payment, total_amount,
		                   remaining_balance, purpose, status, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+loanColumns,
		loan.ID, loan.UserID, string(loan.LoanType), loan.Amount, loan.InterestRate, loan.Term, loan.MonthlyPayment,
		loan.TotalAmount, loan.RemainingBalance, loan.Purpose, string(loan.Status), loan.ApprovedAt,
	)
	created, err := scanLoan(row)
	if err != nil {
		return nil, convertErr(err, "creating loan")
	}
	return created, nil
}

func (r *LoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	loan, err := scanLoan(r.conn.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id))
	if err != nil {
		return nil, convertErr(err, "find loan `%s`", id)
	}
	return loan, nil
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "list loans of `%s`", userID)
	}
	loans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Loan, error) {
		loan, scanErr := scanLoan(row)
		if scanErr != nil {
			return domain.Loan{}, scanErr
		}
		return *loan, nil
	})
	if err != nil {
		return nil, convertErr(err, "list loans of `%s`", userID)
	}
	return loans, nil
}

func (r *LoanRepository) CountByUserAndStatuses(
	ctx context.Context,
	userID uuid.UUID,
	statuses []domain.LoanStatus,
) (int64, error) {
	var count int64
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM loans WHERE user_id = $1 AND status = ANY($2)`,
		userID, toStrings(statuses),
	).Scan(&count)
	if err != nil {
		return 0, convertErr(err, "count loans of `%s`", userID)
	}
	return count, nil
}

func (r *LoanRepository) UpdateLoan(
	ctx context.Context,
	loan domain.Loan,
	expected domain.LoanStatus,
) (*domain.Loan, error) {
	row := r.conn.QueryRow(ctx, `
		UPDATE loans
		SET amount            = $2,
		    interest_rate     = $3,
		    term              = $4,
		    monthly_payment   = $5,
		    total_amount      = $6,
		    remaining_balance = $7,
		    purpose           = $8,
		    status            = $9,
		    approved_at       = $10,
		    updated_at        = NOW()
		WHERE id = $1 AND status = $11
		RETURNING `+loanColumns,
		loan.ID, loan.Amount, loan.InterestRate, loan.Term, loan.MonthlyPayment, loan.TotalAmount,
		loan.RemainingBalance, loan.Purpose, string(loan.Status), loan.ApprovedAt, string(expected),
	)
	updated, err := scanLoan(row)
	if err != nil {
		return nil, convertErr(err, "update loan `%s`", loan.ID)
	}
	return updated, nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var l domain.Loan
	var loanType, status string
	err := row.Scan(&l.ID, &l.UserID, &loanType, &l.Amount, &l.InterestRate, &l.Term, &l.MonthlyPayment,
		&l.TotalAmount, &l.RemainingBalance, &l.Purpose, &status, &l.ApprovedAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	l.LoanType = domain.LoanType(loanType)
	l.Status = domain.LoanStatus(status)
	return &l, nil
}

// toStrings приводит срез строковых enum к []string для параметров ANY($n).
func toStrings[T ~string](values []T) []string {
	res := make([]string, len(values))
	for i, v := range values {
		res[i] = string(v)
	}
	return res
}
