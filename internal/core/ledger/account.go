package ledger

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const AccountNumberPrefix = "ACC"

// GenerateAccountNumber формирует номер счета: ACC, unix-время в миллисекундах и 4 случайные цифры.
// Уникальность не гарантируется, при коллизии номер генерируется заново.
func GenerateAccountNumber(now time.Time) string {
	return fmt.Sprintf("%s%d%04d", AccountNumberPrefix, now.UnixMilli(), rand.IntN(10_000)) //nolint:gosec
}
