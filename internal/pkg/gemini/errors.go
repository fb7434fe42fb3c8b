package gemini

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

type ErrorCode string

const (
	ErrorCodeInvalidAPIKey      ErrorCode = "INVALID_API_KEY"
	ErrorCodeRateLimit          ErrorCode = "RATE_LIMIT"
	ErrorCodeTokenLimitExceeded ErrorCode = "TOKEN_LIMIT_EXCEEDED"
	ErrorCodeAPIError           ErrorCode = "API_ERROR"
)

// ClassifyError maps err to an ErrorCode. A missing client and structured
// API errors are checked first, everything else falls back to matching the
// message.
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrClientUnavailable) {
		return ErrorCodeInvalidAPIKey
	}
	if apiErr, ok := asAPIError(err); ok {
		if code, ok := classifyAPIError(apiErr); ok {
			return code
		}
	}
	return classifyMessage(err.Error())
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}

func classifyAPIError(apiErr genai.APIError) (ErrorCode, bool) {
	switch {
	case apiErr.Code == http.StatusUnauthorized,
		apiErr.Code == http.StatusForbidden,
		apiErr.Status == "UNAUTHENTICATED",
		apiErr.Status == "PERMISSION_DENIED",
		hasDetailReason(apiErr, "API_KEY_INVALID"):
		return ErrorCodeInvalidAPIKey, true
	case apiErr.Code == http.StatusTooManyRequests,
		apiErr.Status == "RESOURCE_EXHAUSTED":
		return ErrorCodeRateLimit, true
	}
	return "", false
}

func hasDetailReason(apiErr genai.APIError, reason string) bool {
	for _, d := range apiErr.Details {
		if r, ok := d["reason"].(string); ok && r == reason {
			return true
		}
	}
	return false
}

// classifyMessage is a best effort match on the lowercase message.
func classifyMessage(msg string) ErrorCode {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "api_key"), strings.Contains(m, "authentication"):
		return ErrorCodeInvalidAPIKey
	case strings.Contains(m, "rate"), strings.Contains(m, "quota"):
		return ErrorCodeRateLimit
	case strings.Contains(m, "token"), strings.Contains(m, "length"):
		return ErrorCodeTokenLimitExceeded
	default:
		return ErrorCodeAPIError
	}
}
