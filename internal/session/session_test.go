package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/router"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/whatsapp"
)

type fakeGateway struct {
	status       pkgWhatsApp.Status
	pairing      pkgWhatsApp.Pairing
	hasPairing   bool
	reconnectErr error
	reconnects   int
}

func (f *fakeGateway) Status() pkgWhatsApp.Status { return f.status }

func (f *fakeGateway) Pairing() (pkgWhatsApp.Pairing, bool) { return f.pairing, f.hasPairing }

func (f *fakeGateway) Reconnect() error {
	f.reconnects++
	return f.reconnectErr
}

func newApp(gw Gateway) *fiber.App {
	app := fiber.New()
	app.Get("/session/status", Status(gw))
	app.Get("/session/qr", QR(gw))
	app.Post("/session/reconnect", Reconnect(gw))
	return app
}

func call(t *testing.T, app *fiber.App, method, path string) (int, router.Response) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body router.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestStatus(t *testing.T) {
	gw := &fakeGateway{status: pkgWhatsApp.Status{SessionName: "whatsappgw-session", Ready: true, Connected: true, LoggedIn: true}}
	code, body := call(t, newApp(gw), http.MethodGet, "/session/status")

	assert.Equal(t, http.StatusOK, code)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "whatsappgw-session", data["session_name"])
	assert.Equal(t, true, data["ready"])
	assert.NotEmpty(t, data["wa_version"])
}

func TestQRWithoutPairing(t *testing.T) {
	code, body := call(t, newApp(&fakeGateway{}), http.MethodGet, "/session/qr")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, body.Status)
}

func TestQRCode(t *testing.T) {
	gw := &fakeGateway{
		hasPairing: true,
		pairing:    pkgWhatsApp.Pairing{Kind: pkgWhatsApp.PairingQR, Code: "2@abc", ExpiresAt: time.Now().Add(time.Minute)},
	}
	code, body := call(t, newApp(gw), http.MethodGet, "/session/qr")

	assert.Equal(t, http.StatusOK, code)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, "2@abc", data["code"])
	assert.Contains(t, data["qr_image"], "data:image/png;base64,")
}

func TestPhonePairingCode(t *testing.T) {
	gw := &fakeGateway{
		hasPairing: true,
		pairing:    pkgWhatsApp.Pairing{Kind: pkgWhatsApp.PairingPhone, Code: "ABCD-EFGH", ExpiresAt: time.Now().Add(time.Minute)},
	}
	code, body := call(t, newApp(gw), http.MethodGet, "/session/qr")

	assert.Equal(t, http.StatusOK, code)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, "ABCD-EFGH", data["code"])
	assert.NotContains(t, data, "qr_image")
}

func TestReconnect(t *testing.T) {
	gw := &fakeGateway{}
	code, _ := call(t, newApp(gw), http.MethodPost, "/session/reconnect")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, gw.reconnects)

	gw.reconnectErr = errors.New("not paired")
	code, body := call(t, newApp(gw), http.MethodPost, "/session/reconnect")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "not paired", body.Error)
}
