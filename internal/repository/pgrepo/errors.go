package pgrepo

import (
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"
	checkViolationCode  = "23514"
)

// constraintErrors бизнес-ошибки для нарушений конкретных ограничений схемы.
var constraintErrors = map[string]error{
	"loans_one_open_per_user_uidx": domain.ErrDuplicateActiveLoan,
	"cards_one_open_per_type_uidx": domain.ErrDuplicateActiveCard,
}

// convertErr преобразует ошибку к стандартному виду для слоя репозитория.
// Добавляет форматированное сообщение контекста, тип бизнес-ошибки и оригинальное сообщение.
// Особенности:
//   - Для ошибок отсутствия данных (pgx.ErrNoRows) возвращает ErrRecordNotFound из domain.
//   - Нарушение ограничений из constraintErrors возвращает соответствующую бизнес-ошибку.
//   - Остальные дубликаты ключей (uniqueViolationCode) возвращаются как ErrDuplicateKey из domain.
//   - Нарушение CHECK (например, отрицательный баланс) возвращается как ErrValidation.
//   - Все остальные ошибки возвращаются как ErrUnknown с оригинальным сообщением.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	errType := domain.ErrUnknown

	if errors.As(err, &pgErr) {
		if known, ok := constraintErrors[pgErr.ConstraintName]; ok {
			errType = known
		} else if isUniqueViolationErr(pgErr) {
			errType = domain.ErrDuplicateKey
		} else if pgErr.Code == checkViolationCode {
			errType = domain.ErrValidation
		}
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, errType, err.Error())
}

func isUniqueViolationErr(err *pgconn.PgError) bool {
	return err.Code == uniqueViolationCode
}

// conflictErr возвращает ErrDuplicateKey, если INSERT ... ON CONFLICT DO NOTHING не вставил строку.
// Такой INSERT не прерывает транзакцию, поэтому вызывающая сторона может повторить его с новым значением.
func conflictErr(err error, format string, formatArgs ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", fmt.Sprintf(format, formatArgs...), domain.ErrDuplicateKey)
	}
	return convertErr(err, format, formatArgs...)
}
