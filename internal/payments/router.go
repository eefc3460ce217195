package payments

import (
	"github.com/gin-gonic/gin"
)

// SetupWebhookRoutes registers the provider callback. It carries no auth
// middleware; the signature is the authentication.
func SetupWebhookRoutes(rg *gin.RouterGroup, controller *WebhookController) {
	rg.POST("/stripe/webhook", controller.HandleStripe) // POST /api/v1/stripe/webhook
}
