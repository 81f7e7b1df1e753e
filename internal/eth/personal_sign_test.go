package eth

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)

	message := "hello feedgate"
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[64] += 27

	recovered, err := RecoverAddress(message, hexutil.Encode(sig))
	require.NoError(t, err)
	assert.Equal(t, address, recovered)

	// A different message recovers a different address.
	recovered, err = RecoverAddress("another message", hexutil.Encode(sig))
	require.NoError(t, err)
	assert.NotEqual(t, address, recovered)
}

func TestRecoverAddressZeroRecoveryID(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)

	message := "hello feedgate"
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)

	// Some wallets emit V as 0/1 instead of 27/28.
	recovered, err := RecoverAddress(message, hexutil.Encode(sig))
	require.NoError(t, err)
	assert.Equal(t, address, recovered)
}

func TestRecoverAddressRejectsBadInput(t *testing.T) {
	_, err := RecoverAddress("msg", "not-hex")
	assert.Error(t, err)

	_, err = RecoverAddress("msg", "0xdeadbeef")
	assert.Error(t, err)
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress(
		"0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		"0x833589fcd6edb6e08f4c7c32d4f71b54bda02913",
	))
	assert.False(t, SameAddress(
		"0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		"0x036CbD53842c5426634e7929541eC2318f3dCF7e",
	))
}
