package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feedgate/feedgate/adapters/gateway"
	"github.com/feedgate/feedgate/core"
	"github.com/feedgate/feedgate/service"
)

// Handlers contains the HTTP handlers for auth, access and publishing.
type Handlers struct {
	authService    *service.AuthService
	accessService  *service.AccessService
	publishService *service.PublishService
}

// NewHandlers creates the handler set.
func NewHandlers(authService *service.AuthService, accessService *service.AccessService, publishService *service.PublishService) *Handlers {
	return &Handlers{
		authService:    authService,
		accessService:  accessService,
		publishService: publishService,
	}
}

// Nonce issues a new challenge for a wallet address.
func (h *Handlers) Nonce(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	nonce, err := h.authService.IssueChallenge(c.Request.Context(), req.Address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":      nonce,
		"expires_in": int(h.authService.NonceTTL().Seconds()),
	})
}

// EntryAccess resolves the access decision for one entry and either serves a
// fetchable URL, an x402 payment challenge, or a denial.
func (h *Handlers) EntryAccess(c *gin.Context) {
	requester := c.GetString(ctxWalletAddress)

	grant, err := h.accessService.Resolve(c.Request.Context(), c.Param("cid"), requester)
	if err != nil {
		if errors.Is(err, core.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		var statusErr *gateway.StatusError
		if errors.As(err, &statusErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": statusErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve access"})
		return
	}

	if grant.Decision == core.AccessUnpaid {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":    "Payment required",
			"decision": grant.Decision.String(),
			"accepts":  grant.Requirements,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"decision": grant.Decision.String(),
		"url":      grant.URL,
	})
}

// PublishEntry creates an entry owned by the verified wallet, attaching a
// payment instruction when the entry is paid.
func (h *Handlers) PublishEntry(c *gin.Context) {
	var req struct {
		CID        string      `json:"cid" binding:"required"`
		FeedID     string      `json:"feed_id"`
		Title      string      `json:"title" binding:"required"`
		StorageKey string      `json:"storage_key" binding:"required"`
		IsFree     bool        `json:"is_free"`
		Price      *core.Price `json:"price"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	entry, err := h.publishService.PublishEntry(c.Request.Context(), service.PublishInput{
		CID:          req.CID,
		FeedID:       req.FeedID,
		Title:        req.Title,
		StorageKey:   req.StorageKey,
		OwnerAddress: c.GetString(ctxWalletAddress),
		IsFree:       req.IsFree,
		Price:        req.Price,
	})
	if err != nil {
		var statusErr *gateway.StatusError
		if errors.As(err, &statusErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": statusErr.Error()})
			return
		}
		// Unknown token pairs and missing prices are client mistakes.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"cid":   entry.CID,
		"piid":  entry.Piid,
		"price": entry.Price,
	})
}

// UnpublishEntry deletes an entry and its payment instruction.
func (h *Handlers) UnpublishEntry(c *gin.Context) {
	err := h.publishService.UnpublishEntry(c.Request.Context(), c.Param("cid"), c.GetString(ctxWalletAddress))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		case errors.Is(err, core.ErrNotEntryOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the feed owner can unpublish"})
		default:
			var statusErr *gateway.StatusError
			if errors.As(err, &statusErr) {
				c.JSON(http.StatusBadGateway, gin.H{"error": statusErr.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unpublish entry"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry unpublished"})
}
