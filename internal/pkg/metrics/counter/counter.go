package counter

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gatewaykit"

// Registry holds every gatewaykit collector. It is separate from the
// prometheus default registry so tests can read values without globals.
var Registry = prometheus.NewRegistry()

var (
	WebhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Stripe webhook events processed, by event and payment type.",
	}, []string{"event_type", "payment_type"})

	CheckoutSessions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_sessions_total",
		Help:      "Stripe checkout sessions requested, by mode and result.",
	}, []string{"mode", "result"})

	Generations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generations_total",
		Help:      "Gemini generation calls, by result and error code.",
	}, []string{"result", "error_code"})
)

func init() {
	Registry.MustRegister(
		WebhookEvents,
		CheckoutSessions,
		Generations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// AddWebhookEvent counts one processed webhook event.
func AddWebhookEvent(eventType, paymentType string) {
	WebhookEvents.WithLabelValues(eventType, paymentType).Inc()
}

// AddCheckoutSession counts one checkout session attempt.
func AddCheckoutSession(mode string, success bool) {
	CheckoutSessions.WithLabelValues(mode, result(success)).Inc()
}

// AddGeneration counts one generation call.
func AddGeneration(success bool, errorCode string) {
	Generations.WithLabelValues(result(success), errorCode).Inc()
}

// Handler serves Registry in the prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
