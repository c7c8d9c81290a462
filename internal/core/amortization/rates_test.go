package amortization

import (
	"testing"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRate(t *testing.T) {
	cases := []struct {
		loanType domain.LoanType
		amount   int64
		want     string
	}{
		{domain.LoanPersonal, 50_000, "10.5"},
		{domain.LoanPersonal, 49_999, "12.5"},
		{domain.LoanHome, 1_000_000, "8.5"},
		{domain.LoanHome, 999_999, "9.5"},
		{domain.LoanBusiness, 200_000, "11.5"},
		{domain.LoanBusiness, 199_999, "13.5"},
		{domain.LoanEducation, 1_000, "9.5"},
		{domain.LoanEducation, 10_000_000, "9.5"},
		{domain.LoanVehicle, 500_000, "9.0"},
		{domain.LoanVehicle, 499_999, "10.5"},
	}

	for _, tc := range cases {
		t.Run(string(tc.loanType), func(t *testing.T) {
			rate, err := Rate(tc.loanType, decimal.NewFromInt(tc.amount))
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(rate), "got %s", rate)
		})
	}
}

func TestRate_UnknownType(t *testing.T) {
	_, err := Rate("mortgage", decimal.NewFromInt(1000))
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateRate(t *testing.T) {
	require.NoError(t, ValidateRate(decimal.RequireFromString("0.1")))
	require.NoError(t, ValidateRate(decimal.NewFromInt(25)))
	require.ErrorIs(t, ValidateRate(decimal.RequireFromString("0.09")), domain.ErrValidation)
	require.ErrorIs(t, ValidateRate(decimal.RequireFromString("25.01")), domain.ErrValidation)
}
