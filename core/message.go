package core

import (
	"fmt"
	"strings"
	"time"
)

// Sign-in messages follow one fixed template. Anything that does not parse
// back against it is rejected before the nonce is even looked at, so a wallet
// can never be tricked into signing a differently-shaped statement that still
// authenticates.
const (
	messagePrefix    = "I am signing in to Feedgate at "
	messageNoncePart = " with nonce: "
)

// SignInMessage renders the statement a wallet is asked to sign.
func SignInMessage(signedAt time.Time, nonce string) string {
	return messagePrefix + signedAt.UTC().Format(time.RFC3339) + messageNoncePart + nonce
}

// ParseSignInMessage extracts the timestamp and nonce from a signed message.
// Returns ErrMalformedMessage unless the message matches the template exactly.
func ParseSignInMessage(message string) (time.Time, string, error) {
	rest, ok := strings.CutPrefix(message, messagePrefix)
	if !ok {
		return time.Time{}, "", fmt.Errorf("missing sign-in statement: %w", ErrMalformedMessage)
	}

	stamp, nonce, ok := strings.Cut(rest, messageNoncePart)
	if !ok || nonce == "" {
		return time.Time{}, "", fmt.Errorf("missing nonce segment: %w", ErrMalformedMessage)
	}

	signedAt, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("unparseable timestamp %q: %w", stamp, ErrMalformedMessage)
	}

	return signedAt, nonce, nil
}
