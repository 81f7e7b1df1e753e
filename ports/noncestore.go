package ports

import (
	"context"
	"time"

	"github.com/feedgate/feedgate/core"
)

// NonceStore holds the single live challenge per wallet address.
// Both backends (in-process and Redis) implement the full contract.
type NonceStore interface {
	// Issue stores a challenge for the address, replacing any prior one.
	// Overwriting deliberately invalidates an earlier, uncompleted challenge.
	Issue(ctx context.Context, walletAddress, nonce string, ttl time.Duration) error

	// Fetch returns the live challenge for the address, or (nil, nil) when
	// none exists or the stored one has expired.
	Fetch(ctx context.Context, walletAddress string) (*core.NonceRecord, error)

	// Revoke deletes the challenge. Idempotent.
	Revoke(ctx context.Context, walletAddress string) error

	// Shutdown releases backend resources. Safe to call at process teardown.
	Shutdown()
}
