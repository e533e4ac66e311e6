package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics owns its registry so several apps can live in one process (tests).
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	authEvents   *prometheus.CounterVec
	otpEvents    *prometheus.CounterVec
	mailDelivery *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		authEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wip_auth_events_total",
				Help: "Signup, login, refresh and logout attempts by outcome",
			},
			[]string{"action", "outcome"},
		),
		otpEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wip_otp_events_total",
				Help: "Email verification code sends and checks by outcome",
			},
			[]string{"action", "outcome"},
		),
		mailDelivery: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wip_mail_delivery_total",
				Help: "Outbound mail attempts by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
	}

	m.registry.MustRegister(
		m.authEvents,
		m.otpEvents,
		m.mailDelivery,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) AuthEvent(action, outcome string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) OTPEvent(action, outcome string) {
	if m == nil {
		return
	}
	m.otpEvents.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) MailDelivery(provider, outcome string) {
	if m == nil {
		return
	}
	m.mailDelivery.WithLabelValues(provider, outcome).Inc()
}

// AuthEvents is exposed for tests.
func (m *Metrics) AuthEvents() *prometheus.CounterVec {
	return m.authEvents
}

// OTPEvents is exposed for tests.
func (m *Metrics) OTPEvents() *prometheus.CounterVec {
	return m.otpEvents
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	if m == nil {
		return func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusNotFound)
		}
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
