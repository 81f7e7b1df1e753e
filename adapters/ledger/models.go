package ledger

import (
	"time"

	"github.com/uptrace/bun"
)

// Transaction is one settled purchase row. Rows are written by the payment
// settlement path and read by the access authorizer; this package is the only
// slice of the relational schema the core touches.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID            string    `bun:"id,pk"`
	EntryCID      string    `bun:"entry_cid,notnull"`
	WalletAddress string    `bun:"wallet_address,notnull"`
	Piid          string    `bun:"piid"`
	Amount        string    `bun:"amount"` // Smallest-unit integer string
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Entry is the persisted feed-entry metadata the authorizer and publisher
// need.
type Entry struct {
	bun.BaseModel `bun:"table:entries,alias:e"`

	CID          string    `bun:"cid,pk"`
	FeedID       string    `bun:"feed_id"`
	OwnerAddress string    `bun:"owner_address,notnull"`
	Title        string    `bun:"title"`
	IsFree       bool      `bun:"is_free,notnull"`
	Piid         string    `bun:"piid"`
	Price        string    `bun:"price"`
	StorageKey   string    `bun:"storage_key,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
