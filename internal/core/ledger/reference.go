package ledger

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const ReferencePrefix = "TXN"

// ULIDReferences генерирует референсы вида TXN<ULID>: время в миллисекундах плюс монотонный случайный суффикс.
type ULIDReferences struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDReferences() *ULIDReferences {
	return &ULIDReferences{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULIDReferences) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		// переполнение монотонного счетчика в пределах одной миллисекунды.
		id = ulid.Make()
	}
	return ReferencePrefix + id.String()
}
