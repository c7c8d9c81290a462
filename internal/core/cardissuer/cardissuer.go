// Package cardissuer определяет тарифы карт и генерирует номера карт.
package cardissuer

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	CardNumberLength = 16
	cvvLength        = 3
)

type feeRow struct {
	creditFee decimal.Decimal
	debitFee  decimal.Decimal
	rewards   domain.RewardsProgram
}

var feeTable = map[domain.CardCategory]feeRow{
	domain.CategoryClassic:   {decimal.NewFromInt(500), decimal.NewFromInt(0), domain.RewardsNone},
	domain.CategoryGold:      {decimal.NewFromInt(1000), decimal.NewFromInt(250), domain.RewardsCashback},
	domain.CategoryPlatinum:  {decimal.NewFromInt(2500), decimal.NewFromInt(500), domain.RewardsPoints},
	domain.CategorySignature: {decimal.NewFromInt(5000), decimal.NewFromInt(1000), domain.RewardsMiles},
	domain.CategoryInfinite:  {decimal.NewFromInt(10000), decimal.NewFromInt(2000), domain.RewardsMiles},
}

// defaultCreditLimits лимит кредитной карты по умолчанию, если юзер его не указал.
var defaultCreditLimits = map[domain.CardCategory]decimal.Decimal{
	domain.CategoryClassic:   decimal.NewFromInt(50_000),
	domain.CategoryGold:      decimal.NewFromInt(100_000),
	domain.CategoryPlatinum:  decimal.NewFromInt(250_000),
	domain.CategorySignature: decimal.NewFromInt(500_000),
	domain.CategoryInfinite:  decimal.NewFromInt(1_000_000),
}

var networkPrefixes = map[domain.CardNetwork]byte{
	domain.NetworkVisa:       '4',
	domain.NetworkMastercard: '5',
	domain.NetworkRuPay:      '6',
	domain.NetworkAmex:       '3',
}

// FeeSchedule возвращает годовое обслуживание и программу лояльности. У дебетовых карт программы нет.
func FeeSchedule(
	cardType domain.CardType,
	category domain.CardCategory,
) (decimal.Decimal, domain.RewardsProgram, error) {
	row, ok := feeTable[category]
	if !ok {
		return decimal.Zero, "", domain.NewValidationError("cardCategory", "unknown card category")
	}
	switch cardType {
	case domain.CardCredit:
		return row.creditFee, row.rewards, nil
	case domain.CardDebit:
		return row.debitFee, domain.RewardsNone, nil
	default:
		return decimal.Zero, "", domain.NewValidationError("cardType", "unknown card type")
	}
}

// DefaultCreditLimit лимит по умолчанию для категории.
func DefaultCreditLimit(category domain.CardCategory) (decimal.Decimal, bool) {
	limit, ok := defaultCreditLimits[category]
	return limit, ok
}

// GenerateCardNumber генерирует 16-значный номер: первая цифра по платежной системе, 14 случайных цифр
// и контрольная цифра Луна.
func GenerateCardNumber(network domain.CardNetwork) (string, error) {
	prefix, ok := networkPrefixes[network]
	if !ok {
		return "", domain.NewValidationError("cardNetwork", "unknown card network")
	}

	digits := make([]byte, CardNumberLength)
	digits[0] = prefix
	for i := 1; i < CardNumberLength-1; i++ {
		digits[i] = byte('0' + rand.IntN(10)) //nolint:gosec
	}
	digits[CardNumberLength-1] = '0' + luhnCheckDigit(digits[:CardNumberLength-1])
	return string(digits), nil
}

// GenerateCVV возвращает трехзначный код.
func GenerateCVV() string {
	var sb strings.Builder
	for range cvvLength {
		sb.WriteByte(byte('0' + rand.IntN(10))) //nolint:gosec
	}
	return sb.String()
}

// luhnCheckDigit считает контрольную цифру для payload: удваиваем каждую вторую цифру начиная с самой правой,
// вычитаем 9 из результатов больше 9, контрольная цифра = (10 - sum%10) % 10.
func luhnCheckDigit(payload []byte) byte {
	var sum int
	double := true
	for i := len(payload) - 1; i >= 0; i-- {
		digit := int(payload[i] - '0')
		if double {
			digit *= 2
			if digit > 9 { //nolint:mnd
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return byte((10 - sum%10) % 10) //nolint:mnd
}

// ValidLuhn проверяет корректность строки по алгоритму Луна.
func ValidLuhn(code string) bool {
	if code == "" {
		return false
	}
	var sum int
	maxDigit := 9
	double := false

	for i := len(code) - 1; i >= 0; i-- {
		char := code[i]

		if !unicode.IsDigit(rune(char)) {
			return false
		}

		digit := int(char - '0')

		if double {
			digit *= 2
			if digit > maxDigit {
				digit -= maxDigit
			}
		}
		sum += digit
		double = !double
	}

	// Код считается валидным, если сумма кратна 10
	return sum%10 == 0
}

// ValidNetwork проверяет, что платежная система поддерживается.
func ValidNetwork(network domain.CardNetwork) bool {
	_, ok := networkPrefixes[network]
	return ok
}
