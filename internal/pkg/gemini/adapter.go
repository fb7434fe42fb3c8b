// Package gemini wraps the Gemini generative-text API: generation with and
// without conversation context, token counting and prompt budget checks.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2/log"
	"google.golang.org/genai"

	"github.com/ManuelReschke/gatewaykit/internal/pkg/config"
)

const (
	DefaultModel     = "gemini-2.5-flash"
	DefaultMaxTokens = 1000000

	temperature = 0.9
	topP        = 0.95
)

var (
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrClientUnavailable is returned by every call when the SDK client
	// could not be built, which only happens for missing credentials.
	ErrClientUnavailable = errors.New("gemini client unavailable")
)

// Models is the part of *genai.Models the adapter uses.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	CountTokens(ctx context.Context, model string, contents []*genai.Content, config *genai.CountTokensConfig) (*genai.CountTokensResponse, error)
}

type Config struct {
	APIKey    string
	Model     string
	MaxTokens int

	// Models replaces the SDK client, used by tests.
	Models Models
	// Cache stores CountTokens results, optional.
	Cache TokenCache
}

type Adapter struct {
	models    Models
	model     string
	maxTokens int
	cache     TokenCache
}

// Result is the outcome of a generation call. Exactly one of the success
// fields (Text, TokensUsed) or the error fields (Error, ErrorCode) is set.
type Result struct {
	Success    bool      `json:"success"`
	Text       string    `json:"text,omitempty"`
	Model      string    `json:"model"`
	TokensUsed *int      `json:"tokens_used,omitempty"`
	Error      string    `json:"error,omitempty"`
	ErrorCode  ErrorCode `json:"error_code,omitempty"`
}

// New never fails. When the SDK client cannot be created every call
// reports the construction error as its result.
func New(ctx context.Context, cfg Config) *Adapter {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	models := cfg.Models
	if models == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			log.Warnf("[Gemini] client unavailable: %v", err)
			models = unavailableModels{err: fmt.Errorf("%w: %w", ErrClientUnavailable, err)}
		} else {
			models = client.Models
		}
	}

	return &Adapter{
		models:    models,
		model:     model,
		maxTokens: maxTokens,
		cache:     cfg.Cache,
	}
}

// NewFromConfig builds an adapter from the service configuration.
func NewFromConfig(ctx context.Context, cfg config.Gemini, cache TokenCache) *Adapter {
	return New(ctx, Config{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Cache:     cache,
	})
}

func (a *Adapter) Model() string {
	return a.model
}

// Generate sends a single prompt. TokensUsed is the provider's count of
// generated tokens when reported, otherwise an estimate from the text.
func (a *Adapter) Generate(ctx context.Context, prompt, systemInstruction string) Result {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](temperature),
		TopP:        genai.Ptr[float32](topP),
	}
	if strings.TrimSpace(systemInstruction) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	resp, err := a.models.GenerateContent(ctx, a.model, genai.Text(prompt), cfg)
	if err != nil {
		return a.failure(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return a.failure(emptyResponseError(resp))
	}

	text := resp.Text()
	tokens := tokensUsed(resp, text)
	return Result{
		Success:    true,
		Text:       text,
		Model:      a.model,
		TokensUsed: &tokens,
	}
}

func (a *Adapter) failure(err error) Result {
	code := ClassifyError(err)
	log.Warnf("[Gemini] generate failed (%s): %v", code, err)
	return Result{
		Success:   false,
		Model:     a.model,
		Error:     err.Error(),
		ErrorCode: code,
	}
}

func emptyResponseError(resp *genai.GenerateContentResponse) error {
	if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("%w: prompt blocked (%s)", ErrEmptyResponse, resp.PromptFeedback.BlockReason)
	}
	return ErrEmptyResponse
}

func tokensUsed(resp *genai.GenerateContentResponse, text string) int {
	if resp.UsageMetadata != nil && resp.UsageMetadata.CandidatesTokenCount > 0 {
		return int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return EstimateTokens(text)
}

// EstimateTokens is the rough 4-characters-per-token rule.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}

type unavailableModels struct {
	err error
}

func (u unavailableModels) GenerateContent(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, u.err
}

func (u unavailableModels) CountTokens(context.Context, string, []*genai.Content, *genai.CountTokensConfig) (*genai.CountTokensResponse, error) {
	return nil, u.err
}
