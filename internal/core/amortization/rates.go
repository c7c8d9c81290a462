package amortization

import (
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/shopspring/decimal"
)

// rateTier ставка для сумм от threshold и выше, и для сумм ниже threshold.
type rateTier struct {
	threshold decimal.Decimal
	atOrAbove decimal.Decimal
	below     decimal.Decimal
}

var rateTable = map[domain.LoanType]rateTier{
	domain.LoanPersonal: {
		threshold: decimal.NewFromInt(50_000),
		atOrAbove: decimal.RequireFromString("10.5"),
		below:     decimal.RequireFromString("12.5"),
	},
	domain.LoanHome: {
		threshold: decimal.NewFromInt(1_000_000),
		atOrAbove: decimal.RequireFromString("8.5"),
		below:     decimal.RequireFromString("9.5"),
	},
	domain.LoanBusiness: {
		threshold: decimal.NewFromInt(200_000),
		atOrAbove: decimal.RequireFromString("11.5"),
		below:     decimal.RequireFromString("13.5"),
	},
	domain.LoanEducation: {
		threshold: decimal.Zero,
		atOrAbove: decimal.RequireFromString("9.5"),
		below:     decimal.RequireFromString("9.5"),
	},
	domain.LoanVehicle: {
		threshold: decimal.NewFromInt(500_000),
		atOrAbove: decimal.RequireFromString("9.0"),
		below:     decimal.RequireFromString("10.5"),
	},
}

// Rate возвращает годовую ставку в процентах для типа кредита и суммы.
func Rate(loanType domain.LoanType, amount decimal.Decimal) (decimal.Decimal, error) {
	tier, ok := rateTable[loanType]
	if !ok {
		return decimal.Zero, domain.NewValidationError("loanType", "unknown loan type")
	}
	if amount.GreaterThanOrEqual(tier.threshold) {
		return tier.atOrAbove, nil
	}
	return tier.below, nil
}

// ValidLoanType проверяет, что тип кредита известен.
func ValidLoanType(loanType domain.LoanType) bool {
	_, ok := rateTable[loanType]
	return ok
}

// ValidateRate проверяет, что ставка лежит в допустимом диапазоне.
func ValidateRate(rate decimal.Decimal) error {
	if rate.LessThan(MinRate) || rate.GreaterThan(MaxRate) {
		return domain.NewValidationError("interestRate", "must be between 0.1 and 25")
	}
	return nil
}
