package repoargs

const (
	DefaultPageLimit uint = 20
	MaxPageLimit     uint = 100
)

type Page struct {
	Limit  uint
	Offset uint
}

// Normalize подставляет лимит по умолчанию и ограничивает максимальный.
func (p Page) Normalize() Page {
	if p.Limit == 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}
