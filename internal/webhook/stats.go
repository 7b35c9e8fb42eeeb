package webhook

import (
	"sync"
	"time"
)

// Stats keeps per-target delivery counters in memory.
type Stats struct {
	mu      sync.RWMutex
	order   []string
	targets map[string]*TargetStats
}

func NewStats(targets []string) *Stats {
	s := &Stats{
		order:   make([]string, 0, len(targets)),
		targets: make(map[string]*TargetStats, len(targets)),
	}
	for _, url := range targets {
		if _, ok := s.targets[url]; ok {
			continue
		}
		s.order = append(s.order, url)
		s.targets[url] = &TargetStats{URL: url}
	}
	return s
}

func (s *Stats) record(res DeliveryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.targets[res.URL]
	if !ok {
		ts = &TargetStats{URL: res.URL}
		s.targets[res.URL] = ts
		s.order = append(s.order, res.URL)
	}

	now := time.Now()
	ts.LastAttempt = &now
	ts.LastStatus = string(res.Status)
	if res.Status == DeliverySuccess {
		ts.Delivered++
		ts.LastError = ""
		return
	}
	ts.Failed++
	ts.LastError = res.Error
}

// Snapshot returns a copy of the counters in target order.
func (s *Stats) Snapshot() []TargetStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TargetStats, 0, len(s.order))
	for _, url := range s.order {
		ts := *s.targets[url]
		if ts.LastAttempt != nil {
			t := *ts.LastAttempt
			ts.LastAttempt = &t
		}
		out = append(out, ts)
	}
	return out
}
