package ports

import (
	"context"

	"github.com/feedgate/feedgate/core"
)

// CreateInstructionInput is the payload for creating a payment instruction.
// An empty PaymentRequirements slice is a legitimate free-access instruction.
type CreateInstructionInput struct {
	Name                string                    `json:"name"`
	Description         string                    `json:"description,omitempty"`
	PaymentRequirements []core.PaymentRequirement `json:"payment_requirements"`
}

// ContentPayment is the outcome of attaching payment terms to new content.
type ContentPayment struct {
	Piid  string // ID of the created payment instruction
	Price string // Canonical smallest-unit amount, exactly as supplied
}

// InstructionGateway is a thin client for the external payment-instruction
// service. The service is system of record; nothing is cached here.
type InstructionGateway interface {
	Create(ctx context.Context, input CreateInstructionInput) (*core.PaymentInstruction, error)
	Get(ctx context.Context, id string) (*core.PaymentInstruction, error)
	MapContentID(ctx context.Context, instructionID, cid string) error
	UnmapContentID(ctx context.Context, instructionID, cid string) error
	Delete(ctx context.Context, instructionID string) error

	// CreateContentPaymentInstruction resolves the price to a concrete token,
	// creates the instruction and binds the content ID to it. When the
	// binding fails after creation, the partial result is returned alongside
	// the error so the caller can compensate with Delete.
	CreateContentPaymentInstruction(ctx context.Context, title, ownerAddress, cid string, price core.Price) (*ContentPayment, error)
}
