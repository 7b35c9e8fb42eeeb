package log

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rivo/uniseg"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.Formatter = &logrus.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
		DisableColors:   false,
		ForceColors:     true,
	}

	// LOG_LEVEL: default "info"
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL"))); err == nil {
		logger.SetLevel(lvl)
	}
}

func Print(c *fiber.Ctx) *logrus.Entry {
	if c == nil {
		return logger.WithFields(logrus.Fields{})
	}

	remoteIP := c.IP()
	if v := c.Locals("remote_ip"); v != nil {
		if ip, ok := v.(string); ok && ip != "" {
			remoteIP = ip
		}
	}
	fields := logrus.Fields{
		"remote_ip": remoteIP,
		"method":    c.Method(),
		"uri":       c.OriginalURL(),
	}
	if v := c.Locals("request_id"); v != nil {
		fields["request_id"] = v
	}
	return logger.WithFields(fields)
}

// Session logs against the WhatsApp session.
func Session(name string, op string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"session": name,
		"op":      op,
	})
}

// Send logs an outbound send request.
func Send(c *fiber.Ctx, recipient string) *logrus.Entry {
	return Print(c).WithField("recipient", MaskID(recipient))
}

// Webhook logs a single webhook delivery.
func Webhook(url string, from string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"webhook": url,
		"from":    MaskID(from),
	})
}

// MaskID hides the last four characters of the user part of a WhatsApp ID.
func MaskID(id string) string {
	user, server, found := strings.Cut(id, "@")
	if len(user) < 4 {
		return id
	}
	masked := user[0:len(user)-4] + "xxxx"
	if found {
		return masked + "@" + server
	}
	return masked
}

// Preview shortens text to at most max grapheme clusters.
func Preview(text string, max int) string {
	if max <= 0 || uniseg.GraphemeClusterCount(text) <= max {
		return text
	}

	var b strings.Builder
	gr := uniseg.NewGraphemes(text)
	for i := 0; i < max && gr.Next(); i++ {
		b.WriteString(gr.Str())
	}
	b.WriteString("…")
	return b.String()
}
