package internal

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/env"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/metrics"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/whatsapp"
)

const healthCheckSpec = "0 */5 * * * *"

func Routines(cron *cron.Cron, gateway *pkgWhatsApp.Gateway) {
	log.Print(nil).Info("Running Routine Tasks")

	if env.GetEnvBoolOrDefault("WHATSAPP_ENABLE_HEALTH_CHECK_CRON", true) {
		_, err := cron.AddFunc(healthCheckSpec, func() {
			checkSessionHealth(gateway)
		})
		if err != nil {
			log.Print(nil).WithField("error", err.Error()).Error("Failed to add health check cron job")
		}
	} else {
		log.Print(nil).Info("Health check cron disabled; relying on whatsmeow event handlers")
	}

	if isWAVersionRefreshCronEnabled() {
		spec := getWAVersionRefreshCronSpec()
		force := env.GetEnvBoolOrDefault("WHATSAPP_WAVERSION_REFRESH_CRON_FORCE", false)
		_, err := cron.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			status, refreshed, err := pkgWhatsApp.RefreshWAVersion(ctx, force)
			if err != nil {
				log.Print(nil).WithField("version", status.CurrentVersion).WithField("force", force).Error("WA Web version refresh failed: " + err.Error())
				return
			}
			log.Print(nil).WithField("version", status.CurrentVersion).WithField("refreshed", refreshed).WithField("force", force).Info("WA Web version refresh completed")
		})
		if err != nil {
			log.Print(nil).WithField("error", err.Error()).Error("Failed to add WA Web version refresh cron job")
		} else {
			log.Print(nil).WithField("spec", spec).WithField("force", force).Info("WA Web version refresh cron enabled")
		}
	}

	cron.Start()
}

// checkSessionHealth logs the session state and keeps the readiness gauge in
// sync. It never reconnects; whatsmeow's auto-reconnect owns that.
func checkSessionHealth(gateway *pkgWhatsApp.Gateway) bool {
	status := gateway.Status()
	healthy := gateway.Ready() && status.Connected && status.LoggedIn
	metrics.SetSessionReady(healthy)

	entry := log.Session(status.SessionName, "health").
		WithField("connected", status.Connected).
		WithField("logged_in", status.LoggedIn)
	if !healthy {
		entry.Warn("Client unhealthy")
		return false
	}
	entry.Info("Client healthy")
	return true
}

func isWAVersionRefreshCronEnabled() bool {
	envValue, ok := os.LookupEnv("WHATSAPP_ENABLE_WAVERSION_REFRESH_CRON")
	if !ok {
		return false
	}
	enabled, err := strconv.ParseBool(strings.TrimSpace(envValue))
	if err != nil {
		log.Print(nil).Warn("Invalid WHATSAPP_ENABLE_WAVERSION_REFRESH_CRON value; defaulting to disabled")
		return false
	}
	return enabled
}

func getWAVersionRefreshCronSpec() string {
	// robfig/cron with seconds field (6 parts). Default: daily at 03:00:00.
	spec := strings.TrimSpace(os.Getenv("WHATSAPP_WAVERSION_REFRESH_CRON_SPEC"))
	if spec == "" {
		return "0 0 3 * * *"
	}
	return spec
}
