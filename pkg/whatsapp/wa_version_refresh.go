package whatsapp

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store"
	"golang.org/x/sync/singleflight"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/env"
)

var ErrWAVersionOutdatedForQR = errors.New("whatsapp client version is outdated for QR pairing")

type WAVersionRefreshStatus struct {
	CurrentVersion string     `json:"current_version"`
	LastRefreshed  *time.Time `json:"last_refreshed,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
}

var (
	waVersionRefreshGroup singleflight.Group

	waVersionRefreshMu       sync.RWMutex
	waVersionLastRefreshedAt *time.Time
	waVersionLastError       string
)

func formatWAVersion(v store.WAVersionContainer) string {
	return strconv.FormatUint(uint64(v[0]), 10) + "." + strconv.FormatUint(uint64(v[1]), 10) + "." + strconv.FormatUint(uint64(v[2]), 10)
}

func WAVersionStatus() WAVersionRefreshStatus {
	waVersionRefreshMu.RLock()
	defer waVersionRefreshMu.RUnlock()

	var last *time.Time
	if waVersionLastRefreshedAt != nil {
		t := *waVersionLastRefreshedAt
		last = &t
	}

	return WAVersionRefreshStatus{
		CurrentVersion: formatWAVersion(store.GetWAVersion()),
		LastRefreshed:  last,
		LastError:      waVersionLastError,
	}
}

func recordWAVersionRefresh(err error) {
	waVersionRefreshMu.Lock()
	defer waVersionRefreshMu.Unlock()
	now := time.Now()
	waVersionLastRefreshedAt = &now
	if err != nil {
		waVersionLastError = err.Error()
		return
	}
	waVersionLastError = ""
}

// RefreshWAVersion fetches the latest WhatsApp Web version and applies it via store.SetWAVersion.
// Unless force is set, it is throttled by WHATSAPP_WAVERSION_REFRESH_MIN_INTERVAL (default 10m).
// Concurrent callers share one request.
func RefreshWAVersion(ctx context.Context, force bool) (WAVersionRefreshStatus, bool, error) {
	minInterval := env.GetEnvDurationOrDefault("WHATSAPP_WAVERSION_REFRESH_MIN_INTERVAL", 10*time.Minute)
	if !force && minInterval > 0 {
		waVersionRefreshMu.RLock()
		last := waVersionLastRefreshedAt
		waVersionRefreshMu.RUnlock()
		if last != nil && time.Since(*last) < minInterval {
			return WAVersionStatus(), false, nil
		}
	}

	_, err, _ := waVersionRefreshGroup.Do("refresh", func() (interface{}, error) {
		httpClient := &http.Client{Timeout: 15 * time.Second}
		latest, err := whatsmeow.GetLatestVersion(ctx, httpClient)
		if err == nil && latest == nil {
			err = errors.New("latest WhatsApp Web version is nil")
		}
		if err != nil {
			recordWAVersionRefresh(err)
			return nil, err
		}

		store.SetWAVersion(*latest)
		recordWAVersionRefresh(nil)
		return nil, nil
	})
	if err != nil {
		return WAVersionStatus(), true, err
	}
	return WAVersionStatus(), true, nil
}
