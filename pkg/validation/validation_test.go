package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateWebhookURL(t *testing.T) {
	valid := []string{
		"http://a",
		"https://hooks.example.com/whatsapp?token=1",
		"http://127.0.0.1:5678/webhook/abc",
	}
	for _, raw := range valid {
		assert.NoError(t, ValidateWebhookURL(raw), raw)
	}

	invalid := []string{
		"",
		"   ",
		"not a url",
		"ftp://files.example.com",
		"http://",
		"/relative/path",
	}
	for _, raw := range invalid {
		assert.Error(t, ValidateWebhookURL(raw), raw)
	}
}
