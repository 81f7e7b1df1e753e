package service

import (
	"context"
	"fmt"
	"time"

	"github.com/feedgate/feedgate/core"
	"github.com/feedgate/feedgate/internal/eth"
	"github.com/feedgate/feedgate/ports"
)

// AccessGrant is the outcome of one access attempt.
type AccessGrant struct {
	Decision core.AccessDecision
	// URL is set when the decision is servable: the public URL for free
	// content, a short-lived signed URL otherwise.
	URL string
	// Requirements is set when the decision is Unpaid, for the 402 challenge.
	Requirements []core.PaymentRequirement
}

// AccessService decides whether a requester may read an entry. It owns no
// state: every decision is recomputed from the entry row and a live ledger
// lookup, because purchases settle on an external path that never notifies
// this process.
type AccessService struct {
	entries ports.EntryStore
	ledger  ports.PurchaseLedger
	gateway ports.InstructionGateway
	links   ports.LinkSigner

	signedURLTTL time.Duration
}

// NewAccessService creates a new access service.
func NewAccessService(entries ports.EntryStore, ledger ports.PurchaseLedger, gateway ports.InstructionGateway, links ports.LinkSigner) *AccessService {
	return &AccessService{
		entries:      entries,
		ledger:       ledger,
		gateway:      gateway,
		links:        links,
		signedURLTTL: 15 * time.Minute,
	}
}

// Decide classifies one (entry, requester) pair. Precedence: free beats
// everything, ownership beats purchase, purchase beats payment. requester may
// be empty for anonymous reads.
func (s *AccessService) Decide(ctx context.Context, entry *core.Entry, requester string) (core.AccessDecision, error) {
	if entry.IsFree || entry.Piid == "" {
		return core.AccessFree, nil
	}

	if requester != "" && eth.SameAddress(requester, entry.OwnerAddress) {
		return core.AccessOwner, nil
	}

	if requester != "" {
		purchased, err := s.ledger.HasPurchase(ctx, entry.CID, requester)
		if err != nil {
			return core.AccessUnpaid, fmt.Errorf("failed to check purchase: %w", err)
		}
		if purchased {
			return core.AccessPurchased, nil
		}
	}

	return core.AccessUnpaid, nil
}

// Resolve loads the entry, decides, and assembles what the transport needs:
// a fetchable URL for servable decisions, the payment requirements for the
// x402 challenge otherwise.
func (s *AccessService) Resolve(ctx context.Context, cid, requester string) (*AccessGrant, error) {
	entry, err := s.entries.GetEntry(ctx, cid)
	if err != nil {
		return nil, err
	}

	decision, err := s.Decide(ctx, entry, requester)
	if err != nil {
		return nil, err
	}

	grant := &AccessGrant{Decision: decision}

	switch decision {
	case core.AccessFree:
		grant.URL = s.links.PublicURL(entry.StorageKey)

	case core.AccessOwner, core.AccessPurchased:
		// Paid content goes through a short-lived signed URL so the
		// permanent storage address never leaks.
		signed, err := s.links.SignURL(entry.StorageKey, s.signedURLTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to sign content URL: %w", err)
		}
		grant.URL = signed

	case core.AccessUnpaid:
		instruction, err := s.gateway.Get(ctx, entry.Piid)
		if err != nil {
			return nil, fmt.Errorf("failed to load payment requirements: %w", err)
		}
		grant.Requirements = instruction.PaymentRequirements
	}

	return grant, nil
}
