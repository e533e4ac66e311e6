package server_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Kyz7/wip/internal/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	env := testutils.NewTestEnv(t)

	t.Run("Success - Reports ok", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/health-check", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		testutils.AssertSuccess(t, resp)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	env := testutils.NewTestEnv(t)
	env.CreateTestAdmin(t, "admin@wip.kr", "password123", "admin")

	t.Run("Success - Exposes auth counters", func(t *testing.T) {
		body := map[string]interface{}{"email": "admin@wip.kr", "password": "password123"}
		_, err := testutils.MakeRequest(env.App, "POST", "/admin/api/v1/auth/login", body, "")
		require.NoError(t, err)

		resp, err := env.App.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, 200, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `wip_auth_events_total{action="login",outcome="success"} 1`)
		assert.Contains(t, string(raw), `wip_auth_events_total{action="signup",outcome="success"} 1`)
	})
}

func TestRouting(t *testing.T) {
	env := testutils.NewTestEnv(t)

	t.Run("Error - Unknown route", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/does-not-exist", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})

	t.Run("Error - Malformed bearer header", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/admin/api/v1/admin-log", nil, "a b c")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
		testutils.AssertError(t, resp, "UNAUTHORIZED")
	})
}

func TestPanicRecovery(t *testing.T) {
	env := testutils.NewTestEnv(t)
	env.App.Get("/panics", func(c *fiber.Ctx) error {
		panic("handler exploded")
	})

	t.Run("Error - Panic becomes a 500 and the app keeps serving", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/panics", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 500, resp.Code)

		resp, err = testutils.MakeRequest(env.App, "GET", "/health-check", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})
}
