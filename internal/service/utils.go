package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-bank/internal/core/ledger"
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/pkg/uow"
)

// maxGenerateAttempts сколько раз перегенерируется уникальное значение (номер счета, карты, референс)
// при коллизии в хранилище.
const maxGenerateAttempts = 5

// withCollisionRetry вызывает fn, пока она возвращает domain.ErrDuplicateKey, но не больше
// maxGenerateAttempts раз. attempt начинается с нуля. Исчерпание попыток - domain.ErrReferenceCollision.
func withCollisionRetry(ctx context.Context, fn func(attempt int) error) error {
	for attempt := range maxGenerateAttempts {
		err := fn(attempt)
		if !errors.Is(err, domain.ErrDuplicateKey) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr //nolint:wrapcheck
		}
	}
	return fmt.Errorf("%w: %d attempts", domain.ErrReferenceCollision, maxGenerateAttempts)
}

// persistPosting сохраняет результат проведения внутри транзакции tx: сначала условные изменения балансов,
// затем запись транзакции. При коллизии референса он генерируется заново.
func persistPosting(
	ctx context.Context,
	tx uow.TX,
	refs ledger.ReferenceGenerator,
	posting *ledger.Posting,
) (*domain.Transaction, error) {
	accountRepo, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	txRepo, err := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	for _, m := range posting.Movements {
		if _, deltaErr := accountRepo.ApplyDelta(ctx, m.AccountID, m.Delta); deltaErr != nil {
			return nil, deltaErr //nolint:wrapcheck
		}
	}

	record := posting.Transaction
	var saved *domain.Transaction
	retryErr := withCollisionRetry(ctx, func(attempt int) error {
		if attempt > 0 {
			record.Reference = refs.Next()
		}
		var createErr error
		saved, createErr = txRepo.CreateTransaction(ctx, record)
		return createErr //nolint:wrapcheck
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return saved, nil
}
