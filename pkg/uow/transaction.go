package uow

// Transaction реализация TX: строит репозитории поверх соединения транзакции.
type Transaction[C any] struct {
	registry *Registry[C]
	conn     C
}

func NewTransaction[C any](conn C, registry *Registry[C]) *Transaction[C] {
	return &Transaction[C]{
		registry: registry,
		conn:     conn,
	}
}

// Get возвращает репозиторий или ошибку ErrRepositoryNotRegistered.
func (t *Transaction[C]) Get(name RepositoryName) (Repository, error) {
	return t.registry.Build(name, t.conn)
}

// GetAs возвращает зарегистрированный репозиторий с именем name приведенный к типу T
// или ошибки ErrRepositoryNotRegistered в случае не найденного репозитория с указанным name, ErrInvalidRepositoryType
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	repo, err := t.Get(name)
	var res T
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	res, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return res, nil
}
