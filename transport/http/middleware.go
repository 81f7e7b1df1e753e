package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feedgate/feedgate/core"
	"github.com/feedgate/feedgate/service"
)

// Request headers carrying the wallet-signature proof.
const (
	headerWalletAddress = "x-wallet-address"
	headerSignature     = "x-signature"
	headerMessage       = "x-message"
	headerTimestamp     = "x-timestamp"
)

const ctxWalletAddress = "walletAddress"

// RequireWalletSignature validates the signature headers and aborts with 401
// when the proof is missing or invalid. On success the verified address is
// set in the context; handlers must only ever trust that value, never the
// raw header.
func RequireWalletSignature(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := signaturePayload(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing wallet signature headers"})
			return
		}

		if err := authService.VerifyWallet(c.Request.Context(), payload); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": verificationReason(err)})
			return
		}

		c.Set(ctxWalletAddress, payload.Address)
		c.Next()
	}
}

// OptionalWalletSignature verifies the signature headers when present but
// lets anonymous requests through, for read paths where free content needs
// no identity. A present-but-invalid proof is still a 401: silently
// downgrading it to anonymous would mask client bugs.
func OptionalWalletSignature(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(headerWalletAddress) == "" {
			c.Next()
			return
		}

		payload, ok := signaturePayload(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Incomplete wallet signature headers"})
			return
		}

		if err := authService.VerifyWallet(c.Request.Context(), payload); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": verificationReason(err)})
			return
		}

		c.Set(ctxWalletAddress, payload.Address)
		c.Next()
	}
}

func signaturePayload(c *gin.Context) (core.SignaturePayload, bool) {
	address := c.GetHeader(headerWalletAddress)
	signature := c.GetHeader(headerSignature)
	message := c.GetHeader(headerMessage)
	stamp := c.GetHeader(headerTimestamp)

	if address == "" || signature == "" || message == "" || stamp == "" {
		return core.SignaturePayload{}, false
	}

	timestamp, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return core.SignaturePayload{}, false
	}

	return core.SignaturePayload{
		Address:   address,
		Message:   message,
		Signature: signature,
		Timestamp: timestamp,
	}, true
}

// verificationReason maps verification failures to user-facing copy. The
// distinction matters: "signature expired" tells the client to re-sign,
// "invalid signature" tells it something is broken.
func verificationReason(err error) string {
	switch {
	case errors.Is(err, core.ErrSignatureExpired):
		return "Signature expired"
	case errors.Is(err, core.ErrFutureTimestamp):
		return "Signature timestamp is in the future"
	case errors.Is(err, core.ErrMalformedMessage):
		return "Malformed sign-in message"
	case errors.Is(err, core.ErrNonceMismatch):
		return "Nonce mismatch"
	case errors.Is(err, core.ErrChallengeNotFound):
		return "No active challenge, request a new nonce"
	case errors.Is(err, core.ErrInvalidSignature):
		return "Invalid signature"
	}
	return "Authentication failed"
}
