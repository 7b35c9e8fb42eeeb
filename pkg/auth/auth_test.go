package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminAuth(t *testing.T) {
	previous := AdminSecretKey
	t.Cleanup(func() { AdminSecretKey = previous })

	app := fiber.New()
	app.Get("/admin", AdminAuth(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	status := func(secret string) int {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if secret != "" {
			req.Header.Set(HeaderAdminSecret, secret)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	AdminSecretKey = ""
	assert.Equal(t, http.StatusUnauthorized, status(""))
	assert.Equal(t, http.StatusInternalServerError, status("anything"))

	AdminSecretKey = "s3cret"
	assert.Equal(t, http.StatusUnauthorized, status("wrong"))
	assert.Equal(t, http.StatusOK, status("s3cret"))
}
