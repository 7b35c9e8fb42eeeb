package auth

import (
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/env"
)

const HeaderAdminSecret = "X-Admin-Secret"

// AdminSecretKey guards the admin endpoints (/session/reconnect, /webhooks)
var AdminSecretKey string

func init() {
	AdminSecretKey, _ = env.GetEnvString("ADMIN_SECRET_KEY")
}
