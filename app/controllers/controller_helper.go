package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type validatable interface {
	Validate() error
}

// GetClientIP returns the originating client address, honoring the
// Cloudflare and X-Forwarded-For proxy headers.
func GetClientIP(c *fiber.Ctx) string {
	if ip := strings.TrimSpace(c.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		// first entry is the original client
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return strings.TrimPrefix(c.IP(), "::ffff:")
}

// idempotencyKey forwards the caller's Idempotency-Key or generates one.
func idempotencyKey(c *fiber.Ctx) string {
	if key := strings.TrimSpace(c.Get(IdempotencyKeyHeader)); key != "" {
		return key
	}
	return uuid.NewString()
}

func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// parseRequest decodes the JSON body into req and validates it. When false
// is returned the error response has been written and the error is what
// the handler returns.
func parseRequest(c *fiber.Ctx, req validatable) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, errorJSON(c, fiber.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
	}
	if err := req.Validate(); err != nil {
		return false, errorJSON(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	return true, nil
}
