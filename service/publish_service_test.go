package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedgate/feedgate/core"
)

func TestPublishPaidEntry(t *testing.T) {
	entries := newFakeEntries()
	gateway := newFakeGateway()
	svc := NewPublishService(entries, gateway, nopEvents{}, zerolog.Nop())
	ctx := context.Background()

	entry, err := svc.PublishEntry(ctx, PublishInput{
		CID:          "cid-new",
		Title:        "Premium",
		StorageKey:   "objects/new",
		OwnerAddress: ownerAddress,
		IsFree:       false,
		Price:        &core.Price{Amount: "1000000", Currency: "USDC", Network: "base"},
	})
	require.NoError(t, err)

	assert.Equal(t, "pi-1", entry.Piid)
	assert.Equal(t, "1000000", entry.Price)
	assert.Equal(t, strings.ToLower(ownerAddress), entry.OwnerAddress)
	assert.Equal(t, "cid-new", gateway.mapped["pi-1"])

	stored, err := entries.GetEntry(ctx, "cid-new")
	require.NoError(t, err)
	assert.Equal(t, "pi-1", stored.Piid)
}

func TestPublishFreeEntrySkipsGateway(t *testing.T) {
	entries := newFakeEntries()
	gateway := newFakeGateway()
	svc := NewPublishService(entries, gateway, nopEvents{}, zerolog.Nop())

	entry, err := svc.PublishEntry(context.Background(), PublishInput{
		CID:          "cid-free",
		Title:        "Hello",
		StorageKey:   "objects/hello",
		OwnerAddress: ownerAddress,
		IsFree:       true,
	})
	require.NoError(t, err)

	assert.Empty(t, entry.Piid)
	assert.Empty(t, gateway.instructions)
}

func TestPublishPaidEntryWithoutPrice(t *testing.T) {
	svc := NewPublishService(newFakeEntries(), newFakeGateway(), nopEvents{}, zerolog.Nop())

	_, err := svc.PublishEntry(context.Background(), PublishInput{
		CID:          "cid-new",
		Title:        "Premium",
		StorageKey:   "objects/new",
		OwnerAddress: ownerAddress,
		IsFree:       false,
	})
	assert.ErrorContains(t, err, "no price")
}

func TestPublishCompensatesOrphanedInstruction(t *testing.T) {
	entries := newFakeEntries()
	gateway := newFakeGateway()
	mapErr := errors.New("mapping store unavailable")
	gateway.mapErr = mapErr

	svc := NewPublishService(entries, gateway, nopEvents{}, zerolog.Nop())

	_, err := svc.PublishEntry(context.Background(), PublishInput{
		CID:          "cid-new",
		Title:        "Premium",
		StorageKey:   "objects/new",
		OwnerAddress: ownerAddress,
		IsFree:       false,
		Price:        &core.Price{Amount: "1000000", Currency: "USDC", Network: "base"},
	})

	// The original mapping error surfaces; the orphaned instruction is
	// deleted as compensation.
	require.ErrorIs(t, err, mapErr)
	assert.Equal(t, []string{"pi-1"}, gateway.deleted)

	_, err = entries.GetEntry(context.Background(), "cid-new")
	assert.ErrorIs(t, err, core.ErrEntryNotFound)
}

func TestUnpublishEntry(t *testing.T) {
	entries := newFakeEntries(paidEntry())
	gateway := newFakeGateway()
	gateway.instructions["pi-1"] = &core.PaymentInstruction{ID: "pi-1"}
	gateway.mapped["pi-1"] = "cid-paid"

	svc := NewPublishService(entries, gateway, nopEvents{}, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, svc.UnpublishEntry(ctx, "cid-paid", ownerAddress))

	assert.Empty(t, gateway.mapped)
	assert.Equal(t, []string{"pi-1"}, gateway.deleted)

	_, err := entries.GetEntry(ctx, "cid-paid")
	assert.ErrorIs(t, err, core.ErrEntryNotFound)
}

func TestUnpublishEntryRequiresOwner(t *testing.T) {
	entries := newFakeEntries(paidEntry())
	gateway := newFakeGateway()
	svc := NewPublishService(entries, gateway, nopEvents{}, zerolog.Nop())

	err := svc.UnpublishEntry(context.Background(), "cid-paid", otherAddress)
	assert.ErrorIs(t, err, core.ErrNotEntryOwner)
	assert.Empty(t, gateway.deleted)
}

func TestUnpublishMissingEntry(t *testing.T) {
	svc := NewPublishService(newFakeEntries(), newFakeGateway(), nopEvents{}, zerolog.Nop())

	err := svc.UnpublishEntry(context.Background(), "cid-missing", ownerAddress)
	assert.ErrorIs(t, err, core.ErrEntryNotFound)
}
