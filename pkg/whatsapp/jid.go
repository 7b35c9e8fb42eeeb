package whatsapp

import (
	"errors"
	"strings"

	"go.mau.fi/whatsmeow/types"
)

// RecipientSuffix is appended to a bare phone number to address a user.
const RecipientSuffix = "@" + types.LegacyUserServer

var ErrEmptyRecipient = errors.New("WhatsApp recipient has no user part")

// RecipientID builds the "<number>@c.us" identifier for a phone number.
func RecipientID(number string) string {
	return number + RecipientSuffix
}

// RecipientJID turns a "<user>@<server>" identifier into a JID whatsmeow can
// send to. Legacy "c.us" addresses map onto the default user server.
func RecipientJID(recipient string) (types.JID, error) {
	jid, err := types.ParseJID(strings.TrimSpace(recipient))
	if err != nil {
		return types.EmptyJID, err
	}
	if jid.User == "" {
		return types.EmptyJID, ErrEmptyRecipient
	}
	if jid.Server == types.LegacyUserServer {
		jid.Server = types.DefaultUserServer
	}
	return jid, nil
}

// LegacyID renders a JID the way webhook consumers expect it, with personal
// chats on "c.us" and device suffixes dropped.
func LegacyID(jid types.JID) string {
	if jid.IsEmpty() {
		return ""
	}
	jid = jid.ToNonAD()
	if jid.Server == types.DefaultUserServer {
		jid.Server = types.LegacyUserServer
	}
	return jid.String()
}

func DecomposeJID(id string) string {
	if strings.ContainsRune(id, '@') {
		buffers := strings.Split(id, "@")
		id = buffers[0]
	}

	id = strings.TrimSpace(id)
	if len(id) > 0 && id[0] == '+' {
		id = id[1:]
	}

	return id
}
