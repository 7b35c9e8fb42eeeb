package webhook

import (
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/env"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/validation"
)

const EnvTargets = "WEBHOOK_URLS"

// ParseTargets splits a comma separated list of webhook URLs. Entries are
// trimmed, empty ones are skipped and invalid URLs are dropped with a warning.
func ParseTargets(raw string) []string {
	return validTargets(env.SplitList(raw))
}

// LoadTargets reads the target list from WEBHOOK_URLS.
func LoadTargets() []string {
	return validTargets(env.GetEnvList(EnvTargets))
}

func validTargets(entries []string) []string {
	targets := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := validation.ValidateWebhookURL(entry); err != nil {
			log.Print(nil).WithField("webhook", entry).WithError(err).Warn("Ignoring invalid webhook URL")
			continue
		}
		targets = append(targets, entry)
	}
	return targets
}
