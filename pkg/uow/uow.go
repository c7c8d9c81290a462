package uow

type RepositoryName string
type Repository any
type RepositoryFactory[C any] func(C) Repository

// Registry хранит фабрики репозиториев, принимающие соединение типа C (пул, транзакцию, базу).
type Registry[C any] struct {
	repositories map[RepositoryName]RepositoryFactory[C]
}

func NewRegistry[C any]() *Registry[C] {
	return &Registry[C]{repositories: make(map[RepositoryName]RepositoryFactory[C])}
}

// Register регистрирует репозиторий у себя в мапе. Если репозиторий уже зарегистрирован, возвращает
// ошибку ErrRepositoryAlreadyRegistered.
func (r *Registry[C]) Register(name RepositoryName, factory RepositoryFactory[C]) error {
	if _, ok := r.repositories[name]; ok {
		return ErrRepositoryAlreadyRegistered
	}
	r.repositories[name] = factory
	return nil
}

// Build создает репозиторий поверх conn или возвращает ErrRepositoryNotRegistered.
func (r *Registry[C]) Build(name RepositoryName, conn C) (Repository, error) {
	if factory, ok := r.repositories[name]; ok {
		return factory(conn), nil
	}
	return nil, ErrRepositoryNotRegistered
}

// GetRepositoryAs возвращает репозиторий по имени name и приводит его к типу T. Возвращает ошибки
// ErrRepositoryNotRegistered и ErrInvalidRepositoryType.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)

	if !ok {
		return res, ErrInvalidRepositoryType
	}

	return r, nil
}
