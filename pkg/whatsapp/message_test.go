package whatsapp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

func newMessageEvent(chat types.JID, fromMe bool, msg *waE2E.Message) *events.Message {
	return &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{
				Chat:     chat,
				Sender:   chat,
				IsFromMe: fromMe,
				IsGroup:  chat.Server == types.GroupServer,
			},
			ID:        "3EB0C767D26A1D6F",
			PushName:  "Budi",
			Timestamp: time.Unix(1700000000, 0),
		},
		Message: msg,
	}
}

func TestInboundFromEvent(t *testing.T) {
	user := types.NewJID("123", types.DefaultUserServer)

	msg, ok := inboundFromEvent(newMessageEvent(user, false, &waE2E.Message{
		Conversation: proto.String("hi"),
	}))
	require.True(t, ok)
	assert.Equal(t, "123@c.us", msg.From)
	assert.Equal(t, "123@c.us", msg.Sender)
	assert.Equal(t, "hi", msg.Body)
	assert.Equal(t, "Budi", msg.PushName)
	assert.Equal(t, "3EB0C767D26A1D6F", msg.ID)
	assert.False(t, msg.IsGroup)

	_, ok = inboundFromEvent(newMessageEvent(user, true, &waE2E.Message{
		Conversation: proto.String("sent by us"),
	}))
	assert.False(t, ok)

	_, ok = inboundFromEvent(newMessageEvent(types.StatusBroadcastJID, false, &waE2E.Message{
		Conversation: proto.String("status update"),
	}))
	assert.False(t, ok)

	_, ok = inboundFromEvent(newMessageEvent(user, false, nil))
	assert.False(t, ok)

	_, ok = inboundFromEvent(nil)
	assert.False(t, ok)
}

func TestMessageBody(t *testing.T) {
	cases := []struct {
		name string
		msg  *waE2E.Message
		want string
	}{
		{"conversation", &waE2E.Message{Conversation: proto.String("plain")}, "plain"},
		{"extended text", &waE2E.Message{ExtendedTextMessage: &waE2E.ExtendedTextMessage{Text: proto.String("with link")}}, "with link"},
		{"image caption", &waE2E.Message{ImageMessage: &waE2E.ImageMessage{Caption: proto.String("look")}}, "look"},
		{"video caption", &waE2E.Message{VideoMessage: &waE2E.VideoMessage{Caption: proto.String("watch")}}, "watch"},
		{"document caption", &waE2E.Message{DocumentMessage: &waE2E.DocumentMessage{Caption: proto.String("read")}}, "read"},
		{"sticker", &waE2E.Message{StickerMessage: &waE2E.StickerMessage{}}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, messageBody(tc.msg))
		})
	}
}

func TestSessionDeliversMessagesToHandlers(t *testing.T) {
	s := &Session{cfg: Config{SessionName: "test"}, loginResult: make(chan error, 1)}

	var got []InboundMessage
	s.OnMessage(func(msg InboundMessage) {
		got = append(got, msg)
	})

	group := types.NewJID("120363000000000000", types.GroupServer)
	s.handleEvent(newMessageEvent(group, false, &waE2E.Message{Conversation: proto.String("hello group")}))
	s.handleEvent(newMessageEvent(group, true, &waE2E.Message{Conversation: proto.String("echo")}))

	require.Len(t, got, 1)
	assert.Equal(t, "120363000000000000@g.us", got[0].From)
	assert.True(t, got[0].IsGroup)
	assert.Equal(t, "hello group", got[0].Body)
}

func TestSessionLoginSignal(t *testing.T) {
	s := &Session{cfg: Config{SessionName: "test"}, loginResult: make(chan error, 1)}

	s.handleEvent(&events.LoggedOut{})
	s.handleEvent(&events.Connected{})

	// Only the first outcome is kept until someone waits for it.
	assert.ErrorIs(t, <-s.loginResult, ErrClientLoggedOut)
}

func TestSessionPairing(t *testing.T) {
	s := &Session{cfg: Config{SessionName: "test"}}

	_, ok := s.Pairing()
	assert.False(t, ok)

	s.setPairing(Pairing{Kind: PairingQR, Code: "2@abc", ExpiresAt: time.Now().Add(time.Minute)})
	p, ok := s.Pairing()
	require.True(t, ok)
	assert.Equal(t, "2@abc", p.Code)

	s.setPairing(Pairing{Kind: PairingQR, Code: "2@old", ExpiresAt: time.Now().Add(-time.Second)})
	_, ok = s.Pairing()
	assert.False(t, ok)

	s.clearPairing()
	_, ok = s.Pairing()
	assert.False(t, ok)
}

func TestQRDataURL(t *testing.T) {
	url, err := QRDataURL("2@pairing-code")
	require.NoError(t, err)
	assert.Contains(t, url, "data:image/png;base64,")
}
