package ports

import "context"

// EventPublisher notifies other instances about auth and publishing activity.
// Publishing is best-effort; failures must never fail the request that
// triggered them.
type EventPublisher interface {
	PublishWalletVerified(ctx context.Context, walletAddress string) error
	PublishContentPublished(ctx context.Context, cid, piid string) error
}
