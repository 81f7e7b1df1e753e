package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gojek/heimdall/v7/httpclient"

	"github.com/feedgate/feedgate/core"
	"github.com/feedgate/feedgate/ports"
)

const requestTimeout = 10 * time.Second

// StatusError is a non-2xx response from the payment-instruction service.
// The body is kept verbatim: downstream diagnostics distinguish "duplicate
// instruction" from "invalid requirements" from "service unavailable" by
// reading it, so it must not be reformatted or summarized.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("payment instruction service: %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Client is a thin JSON-over-HTTPS client for the external
// payment-instruction service. The service is system of record for
// instructions; this client holds no state.
type Client struct {
	baseURL string
	token   string
	http    *httpclient.Client
}

// NewClient creates a gateway client. Missing configuration is not an error
// here: it is detected at first use so deployments that never publish paid
// content can run without gateway credentials.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    httpclient.NewClient(httpclient.WithHTTPTimeout(requestTimeout)),
	}
}

func (c *Client) ready() error {
	if c.baseURL == "" {
		return fmt.Errorf("payment instruction service is not configured: PAYMENT_API_URL is empty")
	}
	if c.token == "" {
		return fmt.Errorf("payment instruction service is not configured: PAYMENT_API_TOKEN is empty")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.ready(); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("payment instruction service request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(raw),
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Create registers a new payment instruction. An input with no payment
// requirements is a legitimate free-access instruction.
func (c *Client) Create(ctx context.Context, input ports.CreateInstructionInput) (*core.PaymentInstruction, error) {
	var instruction core.PaymentInstruction
	if err := c.do(ctx, http.MethodPost, "/payment-instructions", input, &instruction); err != nil {
		return nil, err
	}
	return &instruction, nil
}

// Get fetches one payment instruction by ID.
func (c *Client) Get(ctx context.Context, id string) (*core.PaymentInstruction, error) {
	var instruction core.PaymentInstruction
	if err := c.do(ctx, http.MethodGet, "/payment-instructions/"+url.PathEscape(id), nil, &instruction); err != nil {
		return nil, err
	}
	return &instruction, nil
}

// MapContentID binds a content identifier to the instruction so the payment
// gateway knows what a completed payment unlocks.
func (c *Client) MapContentID(ctx context.Context, instructionID, cid string) error {
	path := "/payment-instructions/" + url.PathEscape(instructionID) + "/contents/" + url.PathEscape(cid)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// UnmapContentID removes a content binding.
func (c *Client) UnmapContentID(ctx context.Context, instructionID, cid string) error {
	path := "/payment-instructions/" + url.PathEscape(instructionID) + "/contents/" + url.PathEscape(cid)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Delete soft-deletes an instruction upstream. The service rejects deletion
// while content mappings remain; that failure propagates unchanged.
func (c *Client) Delete(ctx context.Context, instructionID string) error {
	return c.do(ctx, http.MethodDelete, "/payment-instructions/"+url.PathEscape(instructionID), nil, nil)
}

// CreateContentPaymentInstruction attaches payment terms to newly published
// content: resolve the token, create the instruction, bind the content ID.
// A mapping failure after creation leaves an unmapped instruction upstream;
// the error propagates as-is together with the partial result, so the caller
// can decide whether to compensate with a Delete.
func (c *Client) CreateContentPaymentInstruction(ctx context.Context, title, ownerAddress, cid string, price core.Price) (*ports.ContentPayment, error) {
	token, err := ResolveToken(price.Currency, price.Network)
	if err != nil {
		return nil, err
	}

	display, err := FormatAmount(price.Amount, token.Decimals)
	if err != nil {
		return nil, err
	}

	instruction, err := c.Create(ctx, ports.CreateInstructionInput{
		Name: title,
		PaymentRequirements: []core.PaymentRequirement{{
			PayTo:             ownerAddress,
			Network:           price.Network,
			Asset:             token.Address,
			MaxAmountRequired: price.Amount,
			Description:       fmt.Sprintf("%s %s on %s", display, price.Currency, price.Network),
		}},
	})
	if err != nil {
		return nil, err
	}

	payment := &ports.ContentPayment{Piid: instruction.ID, Price: price.Amount}

	if err := c.MapContentID(ctx, instruction.ID, cid); err != nil {
		return payment, err
	}

	return payment, nil
}

var _ ports.InstructionGateway = (*Client)(nil)
