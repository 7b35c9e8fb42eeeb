package internal

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	swagger "github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/internal/webhook"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/auth"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/router"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/whatsapp"

	ctlIndex "github.com/gdbrns/go-whatsapp-webhook-gateway/internal/index"
	ctlSend "github.com/gdbrns/go-whatsapp-webhook-gateway/internal/send"
	ctlSession "github.com/gdbrns/go-whatsapp-webhook-gateway/internal/session"
	ctlWebhooks "github.com/gdbrns/go-whatsapp-webhook-gateway/internal/webhooks"
)

// Dependencies are the long-lived objects the HTTP handlers work against.
type Dependencies struct {
	Gateway    *pkgWhatsApp.Gateway
	Dispatcher *webhook.Dispatcher
}

func Routes(app *fiber.App, deps Dependencies) {
	// Configure OpenAPI / Swagger
	specURL := router.BaseURL + "/docs/swagger.json"
	swaggerHandler := swagger.New(swagger.Config{
		URL: specURL,
	})

	// Route for Index
	// ---------------------------------------------
	if router.BaseURL == "" {
		app.Get("/", ctlIndex.Index)
	} else {
		app.Get(router.BaseURL, ctlIndex.Index)
		app.Get(router.BaseURL+"/", ctlIndex.Index)
	}

	// Route for OpenAPI / Swagger
	// ---------------------------------------------
	app.Get(router.BaseURL+"/docs/swagger.json", func(c *fiber.Ctx) error {
		return c.SendFile("docs/swagger.json")
	})
	app.Get(router.BaseURL+"/docs/*", swaggerHandler)

	// Route for Prometheus
	// ---------------------------------------------
	app.Get(router.BaseURL+"/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Route for Send
	// ---------------------------------------------
	app.Post(router.BaseURL+"/send", ctlSend.Send(deps.Gateway))

	// Route for Session
	// ---------------------------------------------
	app.Get(router.BaseURL+"/session/status", ctlSession.Status(deps.Gateway))
	app.Get(router.BaseURL+"/session/qr", ctlSession.QR(deps.Gateway))

	// ============================================================
	// ADMIN ROUTES (X-Admin-Secret authentication)
	// ============================================================
	adminMiddleware := auth.AdminAuth()

	app.Post(router.BaseURL+"/session/reconnect", adminMiddleware, ctlSession.Reconnect(deps.Gateway))
	app.Get(router.BaseURL+"/webhooks", adminMiddleware, ctlWebhooks.ListWebhooks(deps.Dispatcher))
}
