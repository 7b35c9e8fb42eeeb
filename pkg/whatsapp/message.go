package whatsapp

import (
	"time"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

// InboundMessage is an incoming WhatsApp message as seen by the gateway.
type InboundMessage struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	Sender    string    `json:"sender"`
	PushName  string    `json:"push_name,omitempty"`
	Body      string    `json:"body"`
	IsGroup   bool      `json:"is_group"`
	Timestamp time.Time `json:"timestamp"`
}

type MessageHandler func(InboundMessage)

// inboundFromEvent converts a whatsmeow message event. Own messages and
// status broadcasts are reported as not relevant.
func inboundFromEvent(evt *events.Message) (InboundMessage, bool) {
	if evt == nil || evt.Message == nil {
		return InboundMessage{}, false
	}
	if evt.Info.IsFromMe {
		return InboundMessage{}, false
	}
	if evt.Info.Chat == types.StatusBroadcastJID {
		return InboundMessage{}, false
	}

	return InboundMessage{
		ID:        evt.Info.ID,
		From:      LegacyID(evt.Info.Chat),
		Sender:    LegacyID(evt.Info.Sender),
		PushName:  evt.Info.PushName,
		Body:      messageBody(evt.Message),
		IsGroup:   evt.Info.IsGroup,
		Timestamp: evt.Info.Timestamp,
	}, true
}

func messageBody(msg *waE2E.Message) string {
	switch {
	case msg.GetConversation() != "":
		return msg.GetConversation()
	case msg.GetExtendedTextMessage().GetText() != "":
		return msg.GetExtendedTextMessage().GetText()
	case msg.GetImageMessage().GetCaption() != "":
		return msg.GetImageMessage().GetCaption()
	case msg.GetVideoMessage().GetCaption() != "":
		return msg.GetVideoMessage().GetCaption()
	case msg.GetDocumentMessage().GetCaption() != "":
		return msg.GetDocumentMessage().GetCaption()
	}
	return ""
}
