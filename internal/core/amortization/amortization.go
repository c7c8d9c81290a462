// Package amortization считает ставку и аннуитетный график платежей по кредиту.
package amortization

import (
	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	MinTerm = 1
	MaxTerm = 360

	// growthPrecision точность, до которой округляется (1+r)^n на каждом шаге возведения в степень.
	growthPrecision = 24
	roundPlaces     = 2
)

var (
	MinAmount = decimal.NewFromInt(1000)
	MinRate   = decimal.RequireFromString("0.1")
	MaxRate   = decimal.NewFromInt(25)

	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Schedule результат расчета аннуитета.
type Schedule struct {
	MonthlyPayment decimal.Decimal
	TotalAmount    decimal.Decimal
	TotalInterest  decimal.Decimal
}

// Rounded округляет суммы до копеек. Используется только при отдаче результата калькулятора.
func (s Schedule) Rounded() Schedule {
	return Schedule{
		MonthlyPayment: s.MonthlyPayment.Round(roundPlaces),
		TotalAmount:    s.TotalAmount.Round(roundPlaces),
		TotalInterest:  s.TotalInterest.Round(roundPlaces),
	}
}

// Amortize считает ежемесячный платеж по формуле аннуитета:
//
//	r = annualRatePercent / 100 / 12
//	payment = P * r * (1+r)^n / ((1+r)^n - 1), либо P / n при r == 0.
func Amortize(principal, annualRatePercent decimal.Decimal, term int) (Schedule, error) {
	if !principal.IsPositive() {
		return Schedule{}, domain.NewValidationError("amount", "must be positive")
	}
	if annualRatePercent.IsNegative() {
		return Schedule{}, domain.NewValidationError("interestRate", "must not be negative")
	}
	if term < MinTerm || term > MaxTerm {
		return Schedule{}, domain.NewValidationError("term", "must be between 1 and 360 months")
	}

	n := decimal.NewFromInt(int64(term))
	monthlyRate := annualRatePercent.Div(hundred).Div(twelve)

	// без процентов выплачивается ровно тело кредита, деление P / n может быть бесконечной дробью.
	if monthlyRate.IsZero() {
		return Schedule{
			MonthlyPayment: principal.Div(n),
			TotalAmount:    principal,
			TotalInterest:  decimal.Zero,
		}, nil
	}

	growth := pow(one.Add(monthlyRate), term)
	monthly := principal.Mul(monthlyRate).Mul(growth).Div(growth.Sub(one))
	total := monthly.Mul(n)
	return Schedule{
		MonthlyPayment: monthly,
		TotalAmount:    total,
		TotalInterest:  total.Sub(principal),
	}, nil
}

// pow возводит base в натуральную степень exp, ограничивая рост разрядности.
func pow(base decimal.Decimal, exp int) decimal.Decimal {
	result := one
	for exp > 0 {
		if exp%2 == 1 {
			result = result.Mul(base).Round(growthPrecision)
		}
		exp /= 2
		if exp > 0 {
			base = base.Mul(base).Round(growthPrecision)
		}
	}
	return result
}
