package main

// @title Go WhatsApp Webhook Gateway
// @version 1.0.0
// @description Minimal WhatsApp gateway: send text messages over REST and forward inbound messages to webhooks

// @contact.name gdbrns
// @contact.url https://github.com/gdbrns/go-whatsapp-webhook-gateway

// @license.name MIT
// @license.url https://github.com/gdbrns/go-whatsapp-webhook-gateway/blob/main/LICENSE

// @host localhost:3000
// @BasePath /

// @securityDefinitions.apikey AdminAuth
// @in header
// @name X-Admin-Secret
// @description Admin secret key for session and webhook management

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cron "github.com/robfig/cron/v3"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/env"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/router"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/whatsapp"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/internal"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/internal/webhook"
)

type Server struct {
	Address string
	Port    string
}

func main() {
	var err error

	// Intialize Cron
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
	), cron.WithSeconds())

	// Initialize Fiber
	app := fiber.New(fiber.Config{
		ErrorHandler: router.HttpErrorHandler,
		BodyLimit:    router.BodyLimitBytes(),
	})

	// Request ID + panic recovery (structured JSON)
	app.Use(router.HttpRequestID())
	app.Use(router.RecoveryMiddleware())

	// Router Compression
	app.Use(compress.New(compress.Config{
		Level: compress.Level(router.GZipLevel),
		Next: func(c *fiber.Ctx) bool {
			return strings.Contains(c.Path(), "docs")
		},
	}))

	// Router CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: router.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, X-Admin-Secret, X-Request-ID",
		AllowMethods: "GET,POST",
	}))

	// Router Security
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
	}))

	// Router Cache
	app.Use(router.HttpCacheInMemory(
		router.CacheTTLSeconds,
		router.BaseURL+"/session",
		router.BaseURL+"/webhooks",
		router.BaseURL+"/metrics",
	))

	// Router RealIP + request context enrichment
	app.Use(router.HttpRealIP())

	// Router Default Handler
	app.Get("/favicon.ico", router.ResponseNoContent)

	// Session holder and webhook dispatcher shared by routes and startup
	waConfig := pkgWhatsApp.LoadConfig()
	gateway := pkgWhatsApp.NewGateway(waConfig.SessionName)
	dispatcher := webhook.NewDispatcherFromEnv()

	ctxApp, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	// Load Internal Routes
	internal.Routes(app, internal.Dependencies{
		Gateway:    gateway,
		Dispatcher: dispatcher,
	})

	// Running Startup Tasks
	internal.Startup(ctxApp, gateway, dispatcher, waConfig)

	// Running Routines Tasks
	internal.Routines(c, gateway)

	// Get Server Configuration with defaults
	var serverConfig Server

	// SERVER_ADDRESS: default "0.0.0.0" (all interfaces)
	serverConfig.Address = env.GetEnvStringOrDefault("SERVER_ADDRESS", "0.0.0.0")

	// SERVER_PORT: default "3000"
	serverConfig.Port = env.GetEnvStringOrDefault("SERVER_PORT", "3000")

	// Start Server
	log.Print(nil).Info("Server running on port " + serverConfig.Port)
	go func() {
		if err := app.Listen(serverConfig.Address + ":" + serverConfig.Port); err != nil {
			log.Print(nil).Fatal(err.Error())
		}
	}()

	// Watch for Shutdown Signal
	sigShutdown := make(chan os.Signal, 1)
	signal.Notify(sigShutdown, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-sigShutdown
	// Wait 5 Seconds Before Graceful Shutdown
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	// Try To Shutdown Server
	err = app.ShutdownWithContext(ctxShutdown)
	if err != nil {
		log.Print(nil).Fatal(err.Error())
	}

	// Try To Shutdown Cron
	c.Stop()

	// Stop pending logins and close the WhatsApp session
	cancelApp()
	gateway.Close()
}
