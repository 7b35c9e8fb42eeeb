package internal

import (
	"context"
	"time"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/internal/webhook"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/metrics"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/whatsapp"
)

// Startup opens the WhatsApp session in the background and wires inbound
// messages to the webhook dispatcher. A failure is logged and the HTTP
// server keeps running without a session; there is no retry.
func Startup(ctx context.Context, gateway *pkgWhatsApp.Gateway, dispatcher *webhook.Dispatcher, cfg pkgWhatsApp.Config) {
	log.Print(nil).Info("Running Startup Tasks")

	go func() {
		if err := startSession(ctx, gateway, dispatcher, cfg); err != nil {
			log.Session(cfg.SessionName, "startup").WithError(err).Error("WhatsApp session initialization failed, continuing without a session")
			return
		}
		log.Session(cfg.SessionName, "startup").Info("WhatsApp Client is ready!")
	}()
}

func startSession(ctx context.Context, gateway *pkgWhatsApp.Gateway, dispatcher *webhook.Dispatcher, cfg pkgWhatsApp.Config) error {
	if cfg.RefreshVersionOnStart {
		refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		status, _, err := pkgWhatsApp.RefreshWAVersion(refreshCtx, false)
		cancel()
		if err != nil {
			log.Session(cfg.SessionName, "startup").WithField("version", status.CurrentVersion).WithError(err).Warn("WA Web version refresh failed, using built-in version")
		} else {
			log.Session(cfg.SessionName, "startup").WithField("version", status.CurrentVersion).Info("WA Web version refreshed")
		}
	}

	session, err := pkgWhatsApp.Open(ctx, cfg)
	if err != nil {
		return err
	}
	gateway.Attach(session)

	session.OnMessage(forwardInbound(ctx, dispatcher))

	if err := session.Login(ctx); err != nil {
		// A failed login leaves no session behind.
		gateway.Close()
		return err
	}
	gateway.MarkReady()
	return nil
}

// forwardInbound hands every message with a sender and a body to the
// dispatcher on its own goroutine.
func forwardInbound(ctx context.Context, dispatcher *webhook.Dispatcher) pkgWhatsApp.MessageHandler {
	return func(msg pkgWhatsApp.InboundMessage) {
		if msg.From == "" || msg.Body == "" {
			return
		}
		metrics.RecordInbound()
		go func() {
			report := dispatcher.Forward(ctx, msg.From, msg.Body)
			if len(report.Results) > 0 {
				log.Print(nil).
					WithField("message_id", msg.ID).
					WithField("delivered", report.Delivered()).
					WithField("failed", report.Failed()).
					Info("Webhook fan-out complete")
			}
		}()
	}
}
