package constants

// Route constants
const (
	APIRoute           = "/api"
	APIv1Route         = "/v1"
	StripeWebhookRoute = "/webhooks/stripe"
	MetricsRoute       = "/metrics"
	MonitorRoute       = "/monitor"
	DocsBasePath       = "/docs/api/"
)
