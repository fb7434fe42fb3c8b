package controllers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"

	"github.com/ManuelReschke/gatewaykit/internal/pkg/gemini"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/stripegateway"
)

type fakeGateway struct {
	sessionResult stripegateway.SessionResult
	cancelResult  stripegateway.CancelResult
	intent        *stripe.PaymentIntent
	intentErr     error

	lastSession   stripegateway.SessionRequest
	lastMode      string
	lastCancelID  string
	lastAmount    decimal.Decimal
	lastCurrency  string
	lastIdemKey   string
	lastIntentID  string
	lastPayMethod string
}

func (f *fakeGateway) CreateOneTimeSession(_ context.Context, req stripegateway.SessionRequest) stripegateway.SessionResult {
	f.lastMode = "payment"
	f.lastSession = req
	return f.sessionResult
}

func (f *fakeGateway) CreateSubscriptionSession(_ context.Context, req stripegateway.SessionRequest) stripegateway.SessionResult {
	f.lastMode = "subscription"
	f.lastSession = req
	return f.sessionResult
}

func (f *fakeGateway) CancelSubscription(_ context.Context, id string) stripegateway.CancelResult {
	f.lastCancelID = id
	return f.cancelResult
}

func (f *fakeGateway) CreatePaymentIntent(_ context.Context, amount decimal.Decimal, currency, key string) (*stripe.PaymentIntent, error) {
	f.lastAmount = amount
	f.lastCurrency = currency
	f.lastIdemKey = key
	return f.intent, f.intentErr
}

func (f *fakeGateway) ConfirmPaymentIntent(_ context.Context, id, pm string) (*stripe.PaymentIntent, error) {
	f.lastIntentID = id
	f.lastPayMethod = pm
	return f.intent, f.intentErr
}

type fakeGenerator struct {
	result      gemini.Result
	tokens      int
	validateErr error
	limit       int

	lastPrompt  string
	lastSystem  string
	lastInput   string
	lastHistory []gemini.Message
}

func (f *fakeGenerator) Generate(_ context.Context, prompt, system string) gemini.Result {
	f.lastPrompt = prompt
	f.lastSystem = system
	return f.result
}

func (f *fakeGenerator) GenerateWithContext(_ context.Context, input string, history []gemini.Message, system string) gemini.Result {
	f.lastInput = input
	f.lastHistory = history
	f.lastSystem = system
	return f.result
}

func (f *fakeGenerator) CountTokens(_ context.Context, text string) int {
	f.lastPrompt = text
	return f.tokens
}

func (f *fakeGenerator) ValidatePrompt(_ context.Context, system, input, ctxText string) error {
	f.lastSystem = system
	f.lastInput = input
	f.lastPrompt = ctxText
	return f.validateErr
}

func (f *fakeGenerator) Model() string { return "gemini-test" }

func (f *fakeGenerator) PromptLimit() int { return f.limit }

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "" && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

