package send

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgWhatsApp "github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/whatsapp"
)

type fakeSender struct {
	err        error
	recipients []string
	texts      []string
}

func (f *fakeSender) SendText(_ context.Context, recipient string, text string) error {
	f.recipients = append(f.recipients, recipient)
	f.texts = append(f.texts, text)
	return f.err
}

func newApp(sender TextSender) *fiber.App {
	app := fiber.New()
	app.Post("/send", Send(sender))
	return app
}

func doSend(t *testing.T, app *fiber.App, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestSendSuccess(t *testing.T) {
	sender := &fakeSender{}
	code, body := doSend(t, newApp(sender), `{"number":"628123456789","message":"hello"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"sent"}`, body)
	assert.Equal(t, []string{"628123456789@c.us"}, sender.recipients)
	assert.Equal(t, []string{"hello"}, sender.texts)
}

func TestSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("websocket not connected")}
	code, body := doSend(t, newApp(sender), `{"number":"628123456789","message":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.JSONEq(t, `{"error":"websocket not connected"}`, body)
	assert.Len(t, sender.recipients, 1)
}

func TestSendWithoutValidation(t *testing.T) {
	sender := &fakeSender{}
	code, _ := doSend(t, newApp(sender), `{}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"@c.us"}, sender.recipients)
	assert.Equal(t, []string{""}, sender.texts)
}

func TestSendMalformedBody(t *testing.T) {
	sender := &fakeSender{}
	code, body := doSend(t, newApp(sender), `{"number":`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, `"error"`)
	assert.Empty(t, sender.recipients)
}

func TestSendSessionNotReady(t *testing.T) {
	gateway := pkgWhatsApp.NewGateway(pkgWhatsApp.DefaultSessionName)
	code, body := doSend(t, newApp(gateway), `{"number":"628123456789","message":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.JSONEq(t, `{"error":"`+pkgWhatsApp.ErrSessionNotReady.Error()+`"}`, body)
}
