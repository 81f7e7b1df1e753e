package http

import (
	"context"
	"crypto/ecdsa"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedgate/feedgate/adapters/events"
	"github.com/feedgate/feedgate/adapters/noncestore"
	"github.com/feedgate/feedgate/core"
	"github.com/feedgate/feedgate/service"
)

func newProtectedRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := noncestore.NewMemoryStore()
	t.Cleanup(store.Shutdown)

	authService := service.NewAuthService(store, events.NopPublisher{}, zerolog.Nop())

	router := gin.New()
	router.GET("/protected", RequireWalletSignature(authService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"address": c.GetString(ctxWalletAddress)})
	})
	router.GET("/open", OptionalWalletSignature(authService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"address": c.GetString(ctxWalletAddress)})
	})

	return router, authService
}

func signedHeaders(t *testing.T, key *ecdsa.PrivateKey, address, nonce string) http.Header {
	t.Helper()
	now := time.Now()
	message := core.SignInMessage(now, nonce)

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[64] += 27

	header := http.Header{}
	header.Set(headerWalletAddress, address)
	header.Set(headerMessage, message)
	header.Set(headerSignature, hexutil.Encode(sig))
	header.Set(headerTimestamp, strconv.FormatInt(now.Unix(), 10))
	return header
}

func TestRequireWalletSignatureFlow(t *testing.T) {
	router, authService := newProtectedRouter(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	nonce, err := authService.IssueChallenge(context.Background(), address)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header = signedHeaders(t, key, address, nonce)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), address)

	// The challenge was consumed; the same proof cannot be replayed.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "No active challenge")
}

func TestRequireWalletSignatureMissingHeaders(t *testing.T) {
	router, _ := newProtectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireWalletSignatureStaleTimestamp(t *testing.T) {
	router, authService := newProtectedRouter(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	nonce, err := authService.IssueChallenge(context.Background(), address)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header = signedHeaders(t, key, address, nonce)
	req.Header.Set(headerTimestamp, strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Signature expired")
}

func TestOptionalWalletSignature(t *testing.T) {
	router, authService := newProtectedRouter(t)

	// Anonymous requests pass through.
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A present-but-broken proof is rejected, not downgraded to anonymous.
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(headerWalletAddress, "0x1234")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A valid proof authenticates.
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	nonce, err := authService.IssueChallenge(context.Background(), address)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header = signedHeaders(t, key, address, nonce)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), address)
}
