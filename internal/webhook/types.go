package webhook

import (
	"time"
)

type DeliveryStatus string

const (
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFailed  DeliveryStatus = "failed"
)

// Payload is the JSON body posted to every webhook target.
type Payload struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// DeliveryResult is the outcome of the single POST made to one target.
type DeliveryResult struct {
	URL        string         `json:"url"`
	Status     DeliveryStatus `json:"status"`
	StatusCode int            `json:"status_code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Duration   time.Duration  `json:"duration"`
}

// Report collects one DeliveryResult per target, in target order.
type Report struct {
	Results []DeliveryResult `json:"results"`
}

func (r Report) Delivered() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == DeliverySuccess {
			n++
		}
	}
	return n
}

func (r Report) Failed() int {
	return len(r.Results) - r.Delivered()
}

// TargetStats accumulates delivery outcomes for one target since startup.
type TargetStats struct {
	URL         string     `json:"url"`
	Delivered   int64      `json:"delivered"`
	Failed      int64      `json:"failed"`
	LastStatus  string     `json:"last_status,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
}
