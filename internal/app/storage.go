package app

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-bank/internal/config"
	"github.com/fsdevblog/groph-bank/internal/repository/mongorepo"
	"github.com/fsdevblog/groph-bank/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/pkg/uow"
	"github.com/fsdevblog/groph-bank/pkg/uow/mongouow"
	"github.com/fsdevblog/groph-bank/pkg/uow/pguow"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

// openStorage подключается к выбранному хранилищу и возвращает unit of work с зарегистрированными
// репозиториями. closeFn освобождает соединения.
func (a *App) openStorage(ctx context.Context) (u uow.UOW, closeFn func(), err error) {
	switch a.Config.StorageDriver {
	case config.StorageMongo:
		client, db, connErr := mongorepo.Connect(ctx, a.Config.MongoURI, a.Config.MongoDB, a.Logger)
		if connErr != nil {
			return nil, nil, fmt.Errorf("open storage: %w", connErr)
		}
		closeFn = func() {
			if discErr := client.Disconnect(context.Background()); discErr != nil {
				a.Logger.WithError(discErr).Error("mongo disconnect")
			}
		}
		u, err = initMongoUOW(db, a.Config.MongoTransactions)
	default:
		conn, connErr := pgrepo.Connect(ctx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
		if connErr != nil {
			return nil, nil, fmt.Errorf("open storage: %w", connErr)
		}
		closeFn = conn.Close
		u, err = initPgUOW(conn)
	}

	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return u, closeFn, nil
}

func initPgUOW(conn *pgxpool.Pool) (*pguow.UnitOfWork, error) {
	unitOfWork := pguow.NewUnitOfWork(conn)

	err := registerRepositories(unitOfWork.Registry, map[repoargs.RepositoryName]uow.RepositoryFactory[pguow.DBTX]{
		repoargs.UserRepoName: func(dbtx pguow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.AccountRepoName: func(dbtx pguow.DBTX) uow.Repository {
			return pgrepo.NewAccountRepository(dbtx)
		},
		repoargs.TransactionRepoName: func(dbtx pguow.DBTX) uow.Repository {
			return pgrepo.NewTransactionRepository(dbtx)
		},
		repoargs.LoanRepoName: func(dbtx pguow.DBTX) uow.Repository {
			return pgrepo.NewLoanRepository(dbtx)
		},
		repoargs.CardRepoName: func(dbtx pguow.DBTX) uow.Repository {
			return pgrepo.NewCardRepository(dbtx)
		},
	})
	if err != nil {
		return nil, err
	}
	return unitOfWork, nil
}

func initMongoUOW(db *mongo.Database, transactional bool) (*mongouow.UnitOfWork, error) {
	unitOfWork := mongouow.NewUnitOfWork(db, transactional)

	err := registerRepositories(unitOfWork.Registry, map[repoargs.RepositoryName]uow.RepositoryFactory[*mongo.Database]{
		repoargs.UserRepoName: func(db *mongo.Database) uow.Repository {
			return mongorepo.NewUserRepository(db)
		},
		repoargs.AccountRepoName: func(db *mongo.Database) uow.Repository {
			return mongorepo.NewAccountRepository(db)
		},
		repoargs.TransactionRepoName: func(db *mongo.Database) uow.Repository {
			return mongorepo.NewTransactionRepository(db)
		},
		repoargs.LoanRepoName: func(db *mongo.Database) uow.Repository {
			return mongorepo.NewLoanRepository(db)
		},
		repoargs.CardRepoName: func(db *mongo.Database) uow.Repository {
			return mongorepo.NewCardRepository(db)
		},
	})
	if err != nil {
		return nil, err
	}
	return unitOfWork, nil
}

func registerRepositories[C any](
	registry *uow.Registry[C],
	factories map[repoargs.RepositoryName]uow.RepositoryFactory[C],
) error {
	for name, factory := range factories {
		if regErr := registry.Register(uow.RepositoryName(name), factory); regErr != nil {
			return fmt.Errorf("init UOW: %s: %w", name, regErr)
		}
	}
	return nil
}
