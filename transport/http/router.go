package http

import (
	"github.com/gin-gonic/gin"

	"github.com/feedgate/feedgate/service"
)

// SetupRouter sets up the Gin router.
func SetupRouter(authService *service.AuthService, accessService *service.AccessService, publishService *service.PublishService) *gin.Engine {
	router := gin.Default()

	handlers := NewHandlers(authService, accessService, publishService)

	auth := router.Group("/auth")
	{
		auth.POST("/nonce", handlers.Nonce)
	}

	entries := router.Group("/entries")
	{
		// Reads may be anonymous; free content needs no identity.
		entries.GET("/:cid/access", OptionalWalletSignature(authService), handlers.EntryAccess)

		// Mutations always require a completed challenge.
		entries.POST("", RequireWalletSignature(authService), handlers.PublishEntry)
		entries.DELETE("/:cid", RequireWalletSignature(authService), handlers.UnpublishEntry)
	}

	return router
}
