package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/feedgate/feedgate/ports"
)

const (
	topicWalletVerified   = "feedgate.wallet.verified"
	topicContentPublished = "feedgate.content.published"
)

// WalletVerifiedEvent is emitted after a challenge is completed.
type WalletVerifiedEvent struct {
	Address    string    `json:"address"`
	VerifiedAt time.Time `json:"verified_at"`
}

// ContentPublishedEvent is emitted when paid content gets its payment
// instruction.
type ContentPublishedEvent struct {
	CID         string    `json:"cid"`
	Piid        string    `json:"piid"`
	PublishedAt time.Time `json:"published_at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishWalletVerified publishes a wallet-verified event.
func (p *WatermillPublisher) PublishWalletVerified(_ context.Context, walletAddress string) error {
	return p.publish(topicWalletVerified, WalletVerifiedEvent{
		Address:    walletAddress,
		VerifiedAt: time.Now(),
	})
}

// PublishContentPublished publishes a content-published event.
func (p *WatermillPublisher) PublishContentPublished(_ context.Context, cid, piid string) error {
	return p.publish(topicContentPublished, ContentPublishedEvent{
		CID:         cid,
		Piid:        piid,
		PublishedAt: time.Now(),
	})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NopPublisher drops all events. Used when no message broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishWalletVerified(context.Context, string) error { return nil }

func (NopPublisher) PublishContentPublished(context.Context, string, string) error {
	return nil
}

var (
	_ ports.EventPublisher = (*WatermillPublisher)(nil)
	_ ports.EventPublisher = NopPublisher{}
)
