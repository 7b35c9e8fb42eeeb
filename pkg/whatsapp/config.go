package whatsapp

import (
	"time"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/env"
)

const (
	DefaultSessionName   = "whatsappgw-session"
	DefaultSessionFolder = "session"
	DefaultDeviceName    = "WhatsApp Gateway"
	DefaultLoginTimeout  = 3 * time.Minute
)

type Config struct {
	SessionName   string
	SessionFolder string

	// DatastoreType is "sqlite" (default, stored under SessionFolder) or "postgres".
	DatastoreType string
	DatastoreURI  string

	ProxyURL   string
	DeviceName string

	// PairPhone switches a fresh login from QR scanning to a pairing code.
	PairPhone string

	LoginTimeout          time.Duration
	QRTerminal            bool
	RefreshVersionOnStart bool
}

func LoadConfig() Config {
	return Config{
		SessionName:           env.GetEnvStringOrDefault("WHATSAPP_SESSION_NAME", DefaultSessionName),
		SessionFolder:         env.GetEnvStringOrDefault("WHATSAPP_SESSION_FOLDER", DefaultSessionFolder),
		DatastoreType:         env.GetEnvStringOrDefault("WHATSAPP_DATASTORE_TYPE", "sqlite"),
		DatastoreURI:          env.GetEnvStringOrDefault("WHATSAPP_DATASTORE_URI", ""),
		ProxyURL:              env.GetEnvStringOrDefault("WHATSAPP_CLIENT_PROXY_URL", ""),
		DeviceName:            env.GetEnvStringOrDefault("WHATSAPP_DEVICE_NAME", DefaultDeviceName),
		PairPhone:             DecomposeJID(env.GetEnvStringOrDefault("WHATSAPP_PAIR_PHONE", "")),
		LoginTimeout:          env.GetEnvDurationOrDefault("WHATSAPP_LOGIN_TIMEOUT", DefaultLoginTimeout),
		QRTerminal:            env.GetEnvBoolOrDefault("WHATSAPP_QR_TERMINAL", true),
		RefreshVersionOnStart: env.GetEnvBoolOrDefault("WHATSAPP_REFRESH_WAVERSION_ON_START", true),
	}
}
