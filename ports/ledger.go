package ports

import (
	"context"

	"github.com/feedgate/feedgate/core"
)

// PurchaseLedger is the read/write slice of the transaction table the
// authorizer needs. Writes happen on the payment-settlement path; the
// authorizer itself only reads.
type PurchaseLedger interface {
	// HasPurchase reports whether a transaction links the content ID to the
	// wallet address. Point lookup, consulted on every access decision.
	HasPurchase(ctx context.Context, cid, walletAddress string) (bool, error)

	// RecordPurchase writes one settled purchase.
	RecordPurchase(ctx context.Context, cid, walletAddress, piid, amount string) error
}

// EntryStore persists the entry metadata the authorizer and publisher use.
type EntryStore interface {
	GetEntry(ctx context.Context, cid string) (*core.Entry, error)
	PutEntry(ctx context.Context, entry *core.Entry) error
	DeleteEntry(ctx context.Context, cid string) error
}
