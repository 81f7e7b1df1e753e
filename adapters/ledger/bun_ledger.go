package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/feedgate/feedgate/core"
	"github.com/feedgate/feedgate/ports"
)

// BunStore implements the purchase ledger and entry store on Postgres.
type BunStore struct {
	db *bun.DB
}

// NewBunStore creates a store on an existing bun connection.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// HasPurchase reports whether a settled transaction links the content ID to
// the wallet address. Always hits the database: purchase state is written by
// an external settlement path, so any cache here would serve stale decisions.
func (s *BunStore) HasPurchase(ctx context.Context, cid, walletAddress string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*Transaction)(nil)).
		Where("entry_cid = ?", cid).
		Where("lower(wallet_address) = ?", strings.ToLower(walletAddress)).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to look up purchase: %w", err)
	}
	return exists, nil
}

// RecordPurchase writes one settled purchase.
func (s *BunStore) RecordPurchase(ctx context.Context, cid, walletAddress, piid, amount string) error {
	tx := &Transaction{
		ID:            uuid.New().String(),
		EntryCID:      cid,
		WalletAddress: strings.ToLower(walletAddress),
		Piid:          piid,
		Amount:        amount,
	}

	if _, err := s.db.NewInsert().Model(tx).Exec(ctx); err != nil {
		return fmt.Errorf("failed to record purchase: %w", err)
	}
	return nil
}

// GetEntry loads one entry by content ID.
func (s *BunStore) GetEntry(ctx context.Context, cid string) (*core.Entry, error) {
	entry := new(Entry)
	err := s.db.NewSelect().Model(entry).Where("cid = ?", cid).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}

	return &core.Entry{
		CID:          entry.CID,
		FeedID:       entry.FeedID,
		OwnerAddress: entry.OwnerAddress,
		Title:        entry.Title,
		IsFree:       entry.IsFree,
		Piid:         entry.Piid,
		Price:        entry.Price,
		StorageKey:   entry.StorageKey,
	}, nil
}

// PutEntry inserts or updates an entry.
func (s *BunStore) PutEntry(ctx context.Context, entry *core.Entry) error {
	row := &Entry{
		CID:          entry.CID,
		FeedID:       entry.FeedID,
		OwnerAddress: entry.OwnerAddress,
		Title:        entry.Title,
		IsFree:       entry.IsFree,
		Piid:         entry.Piid,
		Price:        entry.Price,
		StorageKey:   entry.StorageKey,
		UpdatedAt:    time.Now(),
	}

	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (cid) DO UPDATE").
		Set("feed_id = EXCLUDED.feed_id").
		Set("owner_address = EXCLUDED.owner_address").
		Set("title = EXCLUDED.title").
		Set("is_free = EXCLUDED.is_free").
		Set("piid = EXCLUDED.piid").
		Set("price = EXCLUDED.price").
		Set("storage_key = EXCLUDED.storage_key").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to store entry: %w", err)
	}
	return nil
}

// DeleteEntry removes an entry row. Idempotent.
func (s *BunStore) DeleteEntry(ctx context.Context, cid string) error {
	if _, err := s.db.NewDelete().Model((*Entry)(nil)).Where("cid = ?", cid).Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

var (
	_ ports.PurchaseLedger = (*BunStore)(nil)
	_ ports.EntryStore     = (*BunStore)(nil)
)
