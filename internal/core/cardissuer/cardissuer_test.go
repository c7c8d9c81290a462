package cardissuer

import (
	"testing"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeSchedule(t *testing.T) {
	cases := []struct {
		category      domain.CardCategory
		creditFee     int64
		debitFee      int64
		creditRewards domain.RewardsProgram
	}{
		{domain.CategoryClassic, 500, 0, domain.RewardsNone},
		{domain.CategoryGold, 1000, 250, domain.RewardsCashback},
		{domain.CategoryPlatinum, 2500, 500, domain.RewardsPoints},
		{domain.CategorySignature, 5000, 1000, domain.RewardsMiles},
		{domain.CategoryInfinite, 10000, 2000, domain.RewardsMiles},
	}

	for _, tc := range cases {
		t.Run(string(tc.category), func(t *testing.T) {
			fee, rewards, err := FeeSchedule(domain.CardCredit, tc.category)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tc.creditFee).Equal(fee))
			assert.Equal(t, tc.creditRewards, rewards)

			fee, rewards, err = FeeSchedule(domain.CardDebit, tc.category)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tc.debitFee).Equal(fee))
			assert.Equal(t, domain.RewardsNone, rewards)
		})
	}
}

func TestFeeSchedule_Unknown(t *testing.T) {
	_, _, err := FeeSchedule(domain.CardCredit, "diamond")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = FeeSchedule("prepaid", domain.CategoryGold)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateCardNumber(t *testing.T) {
	prefixes := map[domain.CardNetwork]byte{
		domain.NetworkVisa:       '4',
		domain.NetworkMastercard: '5',
		domain.NetworkRuPay:      '6',
		domain.NetworkAmex:       '3',
	}

	for network, prefix := range prefixes {
		t.Run(string(network), func(t *testing.T) {
			for range 500 {
				number, err := GenerateCardNumber(network)
				require.NoError(t, err)
				require.Len(t, number, CardNumberLength)
				require.Equal(t, prefix, number[0])
				require.True(t, ValidLuhn(number), number)
			}
		})
	}
}

func TestGenerateCardNumber_UnknownNetwork(t *testing.T) {
	_, err := GenerateCardNumber("Discover")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidLuhn(t *testing.T) {
	assert.True(t, ValidLuhn("79927398713"))
	assert.True(t, ValidLuhn("4111111111111111"))
	assert.False(t, ValidLuhn("4111111111111112"))
	assert.False(t, ValidLuhn("41111a1111111111"))
	assert.False(t, ValidLuhn(""))
}

func TestGenerateCVV(t *testing.T) {
	cvv := GenerateCVV()
	assert.Len(t, cvv, 3)
	for _, c := range cvv {
		assert.True(t, c >= '0' && c <= '9')
	}
}
