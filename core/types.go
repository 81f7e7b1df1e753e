package core

import "time"

// NonceRecord is a single-use challenge issued to a wallet address.
// At most one live record exists per address; issuing again replaces it.
type NonceRecord struct {
	WalletAddress string    // Lower-cased wallet address the challenge was issued to
	Nonce         string    // Random value the wallet must embed in the signed message
	ExpiresAt     time.Time // When the challenge stops being acceptable
}

// SignaturePayload carries one wallet-signature proof, extracted from
// request headers. Never persisted.
type SignaturePayload struct {
	Address   string // Claimed wallet address
	Message   string // The full signed message text
	Signature string // Hex-encoded 65-byte personal-sign signature
	Timestamp int64  // Unix seconds the client claims it signed at
}

// Entry is the slice of a feed entry the access decision needs.
type Entry struct {
	CID          string // Content identifier
	FeedID       string
	OwnerAddress string // Wallet address of the feed owner
	Title        string
	IsFree       bool
	Piid         string // Payment instruction ID; empty means no payment attached
	Price        string // Smallest-unit integer amount, empty for free entries
	StorageKey   string // Opaque key at the content delivery gateway
}

// Price is the publisher-supplied price of a paid entry.
type Price struct {
	Amount   string `json:"amount"` // Integer string in smallest token units
	Currency string `json:"currency"`
	Network  string `json:"network"`
}

// PaymentRequirement mirrors one x402 payment requirement as the
// payment-instruction service stores it.
type PaymentRequirement struct {
	PayTo             string `json:"pay_to"`
	Network           string `json:"network"`
	Asset             string `json:"asset"`
	MaxAmountRequired string `json:"max_amount_required"`
	Description       string `json:"description,omitempty"`
}

// PaymentInstruction is owned by the external payment-instruction service;
// this core only ever holds its ID as a foreign key.
type PaymentInstruction struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Description         string               `json:"description,omitempty"`
	OwningUserID        string               `json:"owning_user_id"`
	PaymentRequirements []PaymentRequirement `json:"payment_requirements"`
	Version             int                  `json:"version"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// AccessDecision classifies one (entry, requester) access attempt.
// It is derived per request and never cached: purchase state changes
// externally without this process being notified.
type AccessDecision int

const (
	AccessFree AccessDecision = iota
	AccessOwner
	AccessPurchased
	AccessUnpaid
)

func (d AccessDecision) String() string {
	switch d {
	case AccessFree:
		return "free"
	case AccessOwner:
		return "owner"
	case AccessPurchased:
		return "purchased"
	case AccessUnpaid:
		return "unpaid"
	}
	return "unknown"
}

// Servable reports whether the decision allows the content to be served
// without a new payment.
func (d AccessDecision) Servable() bool {
	return d != AccessUnpaid
}
