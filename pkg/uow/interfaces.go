package uow

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks
import (
	"context"
)

type TX interface {
	Get(name RepositoryName) (Repository, error)
}

// UOW не зависит от конкретного хранилища. Реализации: pguow (postgres) и mongouow (mongodb).
type UOW interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx TX) error) error
	GetRepository(name RepositoryName) (Repository, error)
}
