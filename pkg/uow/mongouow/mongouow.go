// Package mongouow unit of work поверх сессионных транзакций mongodb.
package mongouow

import (
	"context"

	"github.com/fsdevblog/groph-bank/pkg/uow"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

type UnitOfWork struct {
	*uow.Registry[*mongo.Database]
	db            *mongo.Database
	transactional bool
}

// NewUnitOfWork создает unit of work. При transactional == false Do выполняет fn без сессии: записи
// в разные документы не атомарны. Транзакции mongodb требуют replica set.
func NewUnitOfWork(db *mongo.Database, transactional bool) *UnitOfWork {
	return &UnitOfWork{
		Registry:      uow.NewRegistry[*mongo.Database](),
		db:            db,
		transactional: transactional,
	}
}

// Do выполняет fn в транзакции. Репозитории обязаны использовать переданный в fn контекст,
// так как он несет сессию.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, uow.TX) error) error {
	tx := uow.NewTransaction(u.db, u.Registry)
	if !u.transactional {
		return fn(ctx, tx)
	}

	ses, err := u.db.Client().StartSession()
	if err != nil {
		return errors.WithStack(err)
	}
	defer ses.EndSession(ctx)

	_, err = ses.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx, tx)
	})
	return err //nolint:wrapcheck
}

func (u *UnitOfWork) GetRepository(name uow.RepositoryName) (uow.Repository, error) {
	return u.Build(name, u.db)
}
