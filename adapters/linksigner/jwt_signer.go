package linksigner

import (
	"crypto/ecdsa"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/feedgate/feedgate/ports"
)

const audienceContent = "content:access"

// JWTSigner issues short-lived signed URLs for the content delivery gateway.
// Paid content is never served from its raw storage address; the gateway
// checks the token before streaming, so a leaked link dies with the token.
type JWTSigner struct {
	signKey     *ecdsa.PrivateKey
	contentBase string
}

// NewJWTSigner creates a signer. contentBase is the delivery gateway origin,
// e.g. "https://content.feedgate.example".
func NewJWTSigner(signKey *ecdsa.PrivateKey, contentBase string) *JWTSigner {
	return &JWTSigner{signKey: signKey, contentBase: contentBase}
}

// SignURL returns a fetchable URL for the storage key that expires after ttl.
func (s *JWTSigner) SignURL(storageKey string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   storageKey,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Audience:  jwt.ClaimStrings{audienceContent},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signed, err := token.SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign content token: %w", err)
	}

	return s.PublicURL(storageKey) + "?token=" + url.QueryEscape(signed), nil
}

// PublicURL is the unsigned address, used only for free content.
func (s *JWTSigner) PublicURL(storageKey string) string {
	return s.contentBase + "/content/" + url.PathEscape(storageKey)
}

var _ ports.LinkSigner = (*JWTSigner)(nil)
