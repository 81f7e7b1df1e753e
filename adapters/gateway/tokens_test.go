package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveToken(t *testing.T) {
	token, err := ResolveToken("USDC", "base")
	require.NoError(t, err)
	assert.Equal(t, "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", token.Address)
	assert.Equal(t, int32(6), token.Decimals)

	token, err = ResolveToken("WETH", "base")
	require.NoError(t, err)
	assert.Equal(t, int32(18), token.Decimals)
}

func TestResolveTokenUnknown(t *testing.T) {
	_, err := ResolveToken("USDC", "unknown-chain")
	require.EqualError(t, err, "unknown token USDC on network unknown-chain")

	_, err = ResolveToken("DOGE", "base")
	require.EqualError(t, err, "unknown token DOGE on network base")
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount   string
		decimals int32
		want     string
	}{
		{"1000000", 6, "1"},
		{"1500000", 6, "1.5"},
		{"1", 6, "0.000001"},
		{"123456789", 6, "123.456789"},
		{"1000000000000000000", 18, "1"},
		{"2500000000000000000", 18, "2.5"},
		{"0", 6, "0"},
	}

	for _, tc := range cases {
		got, err := FormatAmount(tc.amount, tc.decimals)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "amount %s at %d decimals", tc.amount, tc.decimals)
	}
}

func TestFormatAmountInvalid(t *testing.T) {
	_, err := FormatAmount("not-a-number", 6)
	assert.Error(t, err)
}
