package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"google.golang.org/genai"
)

// TokenCache remembers token counts per model and text. Implementations
// must treat failures as misses.
type TokenCache interface {
	Get(ctx context.Context, key string) (int, bool)
	Set(ctx context.Context, key string, tokens int)
}

// TokenLimitError reports a prompt over 80% of the model budget.
type TokenLimitError struct {
	Count int
	Limit int
}

func (e *TokenLimitError) Error() string {
	return fmt.Sprintf("Token limit exceeded: %d/%d", e.Count, e.Limit)
}

// TokenCacheKey is the cache key for text under model.
func TokenCacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "gemini:tokens:" + model + ":" + hex.EncodeToString(sum[:])
}

// CountTokens asks the provider for the token count of text and falls back
// to EstimateTokens on any failure. The result is never negative.
func (a *Adapter) CountTokens(ctx context.Context, text string) int {
	key := TokenCacheKey(a.model, text)
	if a.cache != nil {
		if n, ok := a.cache.Get(ctx, key); ok && n >= 0 {
			return n
		}
	}

	resp, err := a.models.CountTokens(ctx, a.model, genai.Text(text), nil)
	if err != nil || resp == nil || resp.TotalTokens < 0 {
		if err != nil {
			log.Debugf("[Gemini] count tokens fell back to estimate: %v", err)
		}
		return EstimateTokens(text)
	}

	n := int(resp.TotalTokens)
	if a.cache != nil {
		a.cache.Set(ctx, key, n)
	}
	return n
}

// PromptLimit is the token budget prompts are checked against, 80% of the
// model maximum.
func (a *Adapter) PromptLimit() int {
	return a.maxTokens * 4 / 5
}

// ValidatePrompt joins the system prompt, context and user input the way
// they are sent and returns a *TokenLimitError when the count is over
// PromptLimit.
func (a *Adapter) ValidatePrompt(ctx context.Context, systemPrompt, userInput, contextText string) error {
	full := ""
	if systemPrompt != "" {
		full += systemPrompt + "\n\n"
	}
	if contextText != "" {
		full += contextText + "\n\n"
	}
	full += userInput

	count := a.CountTokens(ctx, full)
	limit := a.PromptLimit()
	if count > limit {
		return &TokenLimitError{Count: count, Limit: limit}
	}
	return nil
}
