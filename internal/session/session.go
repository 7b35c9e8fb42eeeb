package session

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/router"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/whatsapp"
)

// Gateway is the view of the WhatsApp session the session endpoints use.
type Gateway interface {
	Status() pkgWhatsApp.Status
	Pairing() (pkgWhatsApp.Pairing, bool)
	Reconnect() error
}

// Status
// @Summary     Show The Session Status
// @Description Connection and login state of the WhatsApp session
// @Tags        Session
// @Produce     json
// @Success     200
// @Router      /session/status [get]
func Status(gw Gateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := gw.Status()
		status.WAVersion = pkgWhatsApp.WAVersionStatus().CurrentVersion
		return router.ResponseSuccessWithData(c, "Success get session status", status)
	}
}

// QR
// @Summary     Show The Pending Pairing Code
// @Description QR code (as PNG data URL) or phone pairing code while the session is being linked
// @Tags        Session
// @Produce     json
// @Success     200
// @Failure     404
// @Router      /session/qr [get]
func QR(gw Gateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pairing, ok := gw.Pairing()
		if !ok {
			return router.ResponseNotFound(c, "No pairing code pending")
		}

		data := map[string]interface{}{
			"kind":       pairing.Kind,
			"code":       pairing.Code,
			"expires_at": pairing.ExpiresAt,
		}
		if pairing.Kind == pkgWhatsApp.PairingQR {
			qrImage, err := pkgWhatsApp.QRDataURL(pairing.Code)
			if err != nil {
				log.Print(c).WithError(err).Error("Failed to render QR code")
				return router.ResponseInternalError(c, err.Error())
			}
			data["qr_image"] = qrImage
		}

		return router.ResponseSuccessWithData(c, "Success get pairing code", data)
	}
}

// Reconnect
// @Summary     Reconnect The Session
// @Description Drop and re-open the WhatsApp connection of a paired session
// @Tags        Session
// @Produce     json
// @Security    AdminAuth
// @Success     200
// @Failure     500
// @Router      /session/reconnect [post]
func Reconnect(gw Gateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := gw.Reconnect(); err != nil {
			log.Print(c).WithError(err).Error("Failed to reconnect WhatsApp session")
			return router.ResponseInternalError(c, err.Error())
		}
		log.Print(c).Info("WhatsApp session reconnected")
		return router.ResponseSuccess(c, "Success reconnect session")
	}
}
