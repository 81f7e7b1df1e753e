package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/feedgate/feedgate/core"
	"github.com/feedgate/feedgate/internal/eth"
	"github.com/feedgate/feedgate/ports"
)

// PublishInput describes an entry being published.
type PublishInput struct {
	CID          string
	FeedID       string
	Title        string
	StorageKey   string
	OwnerAddress string
	IsFree       bool
	Price        *core.Price // Required unless IsFree
}

// PublishService drives paid-content publication: it creates the payment
// instruction for new paid entries and persists the resulting piid and price.
type PublishService struct {
	entries  ports.EntryStore
	gateway  ports.InstructionGateway
	eventPub ports.EventPublisher
	logger   zerolog.Logger
}

// NewPublishService creates a new publish service.
func NewPublishService(entries ports.EntryStore, gateway ports.InstructionGateway, eventPub ports.EventPublisher, logger zerolog.Logger) *PublishService {
	return &PublishService{
		entries:  entries,
		gateway:  gateway,
		eventPub: eventPub,
		logger:   logger,
	}
}

// PublishEntry stores a new entry, attaching a payment instruction first when
// the entry is paid. If binding the content ID fails after the instruction
// was created, the orphaned instruction is deleted as compensation and the
// original mapping error is returned.
func (s *PublishService) PublishEntry(ctx context.Context, input PublishInput) (*core.Entry, error) {
	entry := &core.Entry{
		CID:          input.CID,
		FeedID:       input.FeedID,
		OwnerAddress: strings.ToLower(input.OwnerAddress),
		Title:        input.Title,
		IsFree:       input.IsFree,
		StorageKey:   input.StorageKey,
	}

	if !input.IsFree {
		if input.Price == nil {
			return nil, fmt.Errorf("paid entry %s has no price", input.CID)
		}

		payment, err := s.gateway.CreateContentPaymentInstruction(ctx, input.Title, input.OwnerAddress, input.CID, *input.Price)
		if err != nil {
			if payment != nil {
				// The instruction exists upstream without a content mapping.
				if delErr := s.gateway.Delete(ctx, payment.Piid); delErr != nil {
					s.logger.Warn().Err(delErr).Str("piid", payment.Piid).Msg("failed to delete orphaned payment instruction")
				}
			}
			return nil, err
		}

		entry.Piid = payment.Piid
		entry.Price = payment.Price
	}

	if err := s.entries.PutEntry(ctx, entry); err != nil {
		return nil, err
	}

	if entry.Piid != "" {
		if err := s.eventPub.PublishContentPublished(ctx, entry.CID, entry.Piid); err != nil {
			s.logger.Warn().Err(err).Str("cid", entry.CID).Msg("failed to publish content-published event")
		}
	}

	return entry, nil
}

// UnpublishEntry removes an entry and its payment instruction. Only the feed
// owner may unpublish. The content binding must be removed before the
// instruction can be deleted upstream; gateway failures propagate unchanged,
// with status and body intact.
func (s *PublishService) UnpublishEntry(ctx context.Context, cid, requester string) error {
	entry, err := s.entries.GetEntry(ctx, cid)
	if err != nil {
		return err
	}

	if !eth.SameAddress(requester, entry.OwnerAddress) {
		return core.ErrNotEntryOwner
	}

	if entry.Piid != "" {
		if err := s.gateway.UnmapContentID(ctx, entry.Piid, cid); err != nil {
			return err
		}
		if err := s.gateway.Delete(ctx, entry.Piid); err != nil {
			return err
		}
	}

	return s.entries.DeleteEntry(ctx, cid)
}
