// Package eth wraps the go-ethereum primitives used to check EIP-191
// personal-sign signatures, the scheme browser wallets use for
// `personal_sign` requests.
package eth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverAddress returns the address that produced the personal-sign
// signature over message. The signature is the hex-encoded 65-byte
// [R || S || V] form wallets emit, with V as 27/28 or 0/1.
func RecoverAddress(message, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode signature: %w", err)
	}
	if len(sig) != 65 {
		return common.Address{}, fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}

	// Normalize the recovery id: wallets emit 27/28, SigToPub wants 0/1.
	v := sig[64]
	if v >= 27 {
		sig = append([]byte(nil), sig...)
		sig[64] = v - 27
	}
	if sig[64] > 1 {
		return common.Address{}, fmt.Errorf("invalid recovery id %d", v)
	}

	pubKey, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// SameAddress compares two addresses case-insensitively, tolerating mixed
// checksum casing.
func SameAddress(a, b string) bool {
	return common.HexToAddress(a) == common.HexToAddress(b)
}
