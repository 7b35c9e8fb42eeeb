package webhooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/internal/webhook"
)

func TestListWebhooks(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	dispatcher := webhook.NewDispatcher([]string{target.URL})
	dispatcher.Forward(context.Background(), "123@c.us", "hi")

	app := fiber.New()
	app.Get("/webhooks", ListWebhooks(dispatcher))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/webhooks", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Webhooks []webhook.TargetStats `json:"webhooks"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data.Webhooks, 1)
	assert.Equal(t, target.URL, body.Data.Webhooks[0].URL)
	assert.Equal(t, int64(1), body.Data.Webhooks[0].Delivered)
}
