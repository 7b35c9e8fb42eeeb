package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/env"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/metrics"
)

const (
	HeaderSignature = "X-Webhook-Signature"
	userAgent       = "WhatsApp-Webhook-Gateway/1.0"

	defaultTimeout = 10 * time.Second
	errorBodyLimit = 512
)

// Dispatcher posts inbound messages to a fixed list of webhook targets.
type Dispatcher struct {
	targets    []string
	secret     string
	httpClient *http.Client
	stats      *Stats
}

type Option func(*Dispatcher)

// WithSecret signs every payload with HMAC-SHA256.
func WithSecret(secret string) Option {
	return func(d *Dispatcher) {
		d.secret = secret
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		if client != nil {
			d.httpClient = client
		}
	}
}

func NewDispatcher(targets []string, opts ...Option) *Dispatcher {
	fixed := make([]string, len(targets))
	copy(fixed, targets)

	d := &Dispatcher{
		targets:    fixed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		stats:      NewStats(fixed),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDispatcherFromEnv builds a Dispatcher from WEBHOOK_URLS, WEBHOOK_SECRET
// and WEBHOOK_TIMEOUT.
func NewDispatcherFromEnv() *Dispatcher {
	timeout := env.GetEnvDurationOrDefault("WEBHOOK_TIMEOUT", defaultTimeout)
	secret := env.GetEnvStringOrDefault("WEBHOOK_SECRET", "")

	d := NewDispatcher(LoadTargets(),
		WithSecret(secret),
		WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	log.Print(nil).WithField("targets", len(d.targets)).Info("Webhook dispatcher configured")
	return d
}

func (d *Dispatcher) Targets() []string {
	out := make([]string, len(d.targets))
	copy(out, d.targets)
	return out
}

func (d *Dispatcher) Stats() *Stats {
	return d.stats
}

// Forward posts {from, text} once to every target, in order. A failing target
// is logged and recorded in the report and never stops the remaining ones.
func (d *Dispatcher) Forward(ctx context.Context, from string, text string) Report {
	report := Report{Results: make([]DeliveryResult, 0, len(d.targets))}
	if from == "" || text == "" || len(d.targets) == 0 {
		return report
	}

	payload, err := json.Marshal(Payload{From: from, Text: text})
	if err != nil {
		log.Print(nil).WithError(err).Error("Failed to encode webhook payload")
		return report
	}

	for _, target := range d.targets {
		res := d.deliver(ctx, target, payload)
		d.stats.record(res)
		metrics.RecordWebhookDelivery(string(res.Status), res.Duration)

		entry := log.Webhook(target, from).WithField("duration", res.Duration.String())
		if res.Status == DeliverySuccess {
			entry.WithField("status_code", res.StatusCode).Info("Webhook delivered")
		} else {
			entry.WithField("status_code", res.StatusCode).WithField("error", res.Error).Error("Webhook delivery failed")
		}
		report.Results = append(report.Results, res)
	}

	return report
}

func (d *Dispatcher) deliver(ctx context.Context, target string, payload []byte) DeliveryResult {
	start := time.Now()
	res := DeliveryResult{URL: target, Status: DeliveryFailed}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		res.Error = err.Error()
		res.Duration = time.Since(start)
		return res
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if d.secret != "" {
		req.Header.Set(HeaderSignature, generateSignature(payload, d.secret))
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		res.Error = err.Error()
		res.Duration = time.Since(start)
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		res.Status = DeliverySuccess
	} else {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		res.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	res.Duration = time.Since(start)
	return res
}

func generateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
