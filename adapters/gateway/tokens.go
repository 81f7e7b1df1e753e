package gateway

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Token is one settlement asset the gateway knows how to price in.
type Token struct {
	Address  string // Token contract address on its network
	Decimals int32
}

// tokens maps currency symbol -> network -> settlement asset. Prices always
// travel as smallest-unit integer strings; Decimals only drives the
// human-readable description.
var tokens = map[string]map[string]Token{
	"USDC": {
		"base":         {Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6},
		"base-sepolia": {Address: "0x036CbD53842c5426634e7929541eC2318f3dCF7e", Decimals: 6},
		"ethereum":     {Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6},
	},
	"WETH": {
		"base":     {Address: "0x4200000000000000000000000000000000000006", Decimals: 18},
		"ethereum": {Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18},
	},
}

// ResolveToken maps a (currency, network) pair to a concrete token contract.
// Unknown pairs fail here, before any network call, so no partial state is
// ever created upstream for an unpriceable entry.
func ResolveToken(currency, network string) (Token, error) {
	networks, ok := tokens[currency]
	if !ok {
		return Token{}, fmt.Errorf("unknown token %s on network %s", currency, network)
	}
	token, ok := networks[network]
	if !ok {
		return Token{}, fmt.Errorf("unknown token %s on network %s", currency, network)
	}
	return token, nil
}

// FormatAmount renders a smallest-unit integer amount as a human-readable
// decimal string: trailing fractional zeros trimmed, whole amounts without a
// fractional part. Display only; the canonical amount stays the integer
// string to keep floating point out of money.
func FormatAmount(amount string, decimals int32) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return d.Shift(-decimals).String(), nil
}
