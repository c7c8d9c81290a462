package ledger

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAccountNumber(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)
	re := regexp.MustCompile(`^ACC(\d{13})(\d{4})$`)

	for range 100 {
		number := GenerateAccountNumber(now)
		m := re.FindStringSubmatch(number)
		require.NotNil(t, m, number)
		require.Equal(t, strconv.FormatInt(now.UnixMilli(), 10), m[1])
	}
}
