package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Kyz7/wip/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("Success - Counters increment per label pair", func(t *testing.T) {
		m := metrics.New()
		m.AuthEvent("login", metrics.OutcomeSuccess)
		m.AuthEvent("login", metrics.OutcomeSuccess)
		m.AuthEvent("login", metrics.OutcomeFailure)

		assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthEvents().WithLabelValues("login", metrics.OutcomeSuccess)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEvents().WithLabelValues("login", metrics.OutcomeFailure)))
	})

	t.Run("Success - Nil metrics is a no-op", func(t *testing.T) {
		var m *metrics.Metrics
		assert.NotPanics(t, func() {
			m.AuthEvent("login", metrics.OutcomeSuccess)
			m.OTPEvent("send", metrics.OutcomeSuccess)
			m.MailDelivery("smtp", metrics.OutcomeFailure)
		})
	})

	t.Run("Success - Handler exposes registered series", func(t *testing.T) {
		m := metrics.New()
		m.OTPEvent("verify", metrics.OutcomeSuccess)

		app := fiber.New()
		app.Get("/metrics", m.Handler())

		resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, 200, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `wip_otp_events_total{action="verify",outcome="success"} 1`)
	})
}
