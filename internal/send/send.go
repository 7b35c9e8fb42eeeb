package send

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	typSend "github.com/gdbrns/go-whatsapp-webhook-gateway/internal/types"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/metrics"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/router"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/whatsapp"
)

// TextSender is the part of the WhatsApp gateway the send endpoint needs.
type TextSender interface {
	SendText(ctx context.Context, recipient string, text string) error
}

// Send
// @Summary     Send a Text Message
// @Description Send a text message to <number>@c.us through the WhatsApp session
// @Tags        Send
// @Accept      json
// @Produce     json
// @Param       body body types.RequestSend true "Recipient number and message"
// @Success     200 {object} router.SendResult
// @Failure     400 {object} router.SendError
// @Failure     500 {object} router.SendError
// @Router      /send [post]
func Send(sender TextSender) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqSend typSend.RequestSend
		if err := c.BodyParser(&reqSend); err != nil {
			log.Print(c).WithError(err).Warn("Failed to parse body request")
			return router.ResponseSendError(c, http.StatusBadRequest, "Failed parse body request")
		}

		recipient := pkgWhatsApp.RecipientID(reqSend.Number)
		log.Send(c, recipient).WithField("text_length", len(reqSend.Message)).Info("Sending text message")

		ctx := c.UserContext()
		if ctx == nil {
			ctx = context.Background()
		}

		err := sender.SendText(ctx, recipient, reqSend.Message)
		metrics.RecordSend(err)
		if err != nil {
			log.Send(c, recipient).WithError(err).Error("Failed to send text message")
			return router.ResponseSendError(c, http.StatusInternalServerError, err.Error())
		}

		log.Send(c, recipient).Info("Text message sent successfully")
		return router.ResponseSent(c)
	}
}
