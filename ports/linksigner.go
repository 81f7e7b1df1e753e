package ports

import "time"

// LinkSigner issues short-lived fetchable URLs for paid content, so the raw
// storage address of a paid entry is never handed out.
type LinkSigner interface {
	SignURL(storageKey string, ttl time.Duration) (string, error)

	// PublicURL is the unsigned address used for free content.
	PublicURL(storageKey string) string
}
