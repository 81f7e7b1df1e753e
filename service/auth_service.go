package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedgate/feedgate/core"
	"github.com/feedgate/feedgate/internal/eth"
	"github.com/feedgate/feedgate/ports"
)

const (
	nonceLength  = 32
	nonceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// AuthService implements the wallet challenge-response protocol: it issues
// single-use nonces and verifies the signed messages that complete them.
type AuthService struct {
	store    ports.NonceStore
	eventPub ports.EventPublisher
	logger   zerolog.Logger

	nonceTTL        time.Duration
	maxSignatureAge time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(store ports.NonceStore, eventPub ports.EventPublisher, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:           store,
		eventPub:        eventPub,
		logger:          logger,
		nonceTTL:        5 * time.Minute,
		maxSignatureAge: 5 * time.Minute,
	}
}

// NonceTTL is the store lifetime given to newly issued challenges.
func (s *AuthService) NonceTTL() time.Duration { return s.nonceTTL }

// IssueChallenge generates a fresh nonce for the address and stores it,
// replacing any earlier challenge that was never completed.
func (s *AuthService) IssueChallenge(ctx context.Context, walletAddress string) (string, error) {
	nonce, err := newNonce()
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	if err := s.store.Issue(ctx, walletAddress, nonce, s.nonceTTL); err != nil {
		return "", fmt.Errorf("failed to store nonce: %w", err)
	}

	return nonce, nil
}

// VerifyWallet runs the full challenge completion: it pulls the issued nonce,
// checks the signed message against it and consumes the nonce on success.
// All rejections are sentinel errors from core; nothing here panics across
// the boundary, because callers turn these into 401 responses.
func (s *AuthService) VerifyWallet(ctx context.Context, payload core.SignaturePayload) error {
	record, err := s.store.Fetch(ctx, payload.Address)
	if err != nil {
		return fmt.Errorf("failed to fetch challenge: %w", err)
	}
	if record == nil {
		return core.ErrChallengeNotFound
	}

	if err := s.VerifySignature(payload, record.Nonce); err != nil {
		return err
	}

	// The challenge is single-use: consume it before reporting success so a
	// second request with the same signature fails the fetch.
	if err := s.store.Revoke(ctx, payload.Address); err != nil {
		return fmt.Errorf("failed to revoke challenge: %w", err)
	}

	if err := s.eventPub.PublishWalletVerified(ctx, payload.Address); err != nil {
		s.logger.Warn().Err(err).Str("address", payload.Address).Msg("failed to publish wallet-verified event")
	}

	return nil
}

// VerifySignature checks one signature payload, short-circuiting on the first
// failure so the reported error is the most specific applicable one:
// cryptographic validity, then freshness, then message shape, then nonce
// binding (skipped when expectedNonce is empty).
func (s *AuthService) VerifySignature(payload core.SignaturePayload, expectedNonce string) error {
	recovered, err := eth.RecoverAddress(payload.Message, payload.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidSignature, err)
	}
	if !eth.SameAddress(recovered.Hex(), payload.Address) {
		return core.ErrInvalidSignature
	}

	// Bounds the replay window even if a valid signature leaks.
	age := time.Now().Unix() - payload.Timestamp
	if age < 0 {
		return core.ErrFutureTimestamp
	}
	if age > int64(s.maxSignatureAge.Seconds()) {
		return core.ErrSignatureExpired
	}

	_, messageNonce, err := core.ParseSignInMessage(payload.Message)
	if err != nil {
		return err
	}

	if expectedNonce != "" && messageNonce != expectedNonce {
		return core.ErrNonceMismatch
	}

	return nil
}

// newNonce draws a fixed-length alphanumeric challenge from crypto/rand.
// A guessable nonce would let an attacker pre-sign a challenge, so a
// general-purpose PRNG is not acceptable here.
func newNonce() (string, error) {
	limit := big.NewInt(int64(len(nonceCharset)))
	buf := make([]byte, nonceLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = nonceCharset[n.Int64()]
	}
	return string(buf), nil
}
