package webhooks

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/internal/webhook"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/router"
)

// ListWebhooks
// @Summary     List Webhook Targets
// @Description Configured webhook URLs with delivery counters since startup
// @Tags        Webhooks
// @Produce     json
// @Security    AdminAuth
// @Success     200
// @Router      /webhooks [get]
func ListWebhooks(dispatcher *webhook.Dispatcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats := dispatcher.Stats().Snapshot()
		log.Print(c).WithField("webhook_count", len(stats)).Info("Listing webhooks")
		return router.ResponseSuccessWithData(c, "success", map[string]interface{}{"webhooks": stats})
	}
}
