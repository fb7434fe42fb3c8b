package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/gatewaykit/app/models"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/config"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/gemini"
	"github.com/ManuelReschke/gatewaykit/internal/pkg/metrics/counter"
)

const generationTimeout = 60 * time.Second

// TextGenerator is the part of *gemini.Adapter the generation handlers use.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, systemInstruction string) gemini.Result
	GenerateWithContext(ctx context.Context, userInput string, history []gemini.Message, systemInstruction string) gemini.Result
	CountTokens(ctx context.Context, text string) int
	ValidatePrompt(ctx context.Context, systemPrompt, userInput, contextText string) error
	Model() string
	PromptLimit() int
}

type GenerationController struct {
	generator TextGenerator
}

func NewGenerationController(generator TextGenerator) *GenerationController {
	return &GenerationController{generator: generator}
}

// Global generation controller instance
var generationController *GenerationController

func InitializeGenerationController(generator TextGenerator) {
	generationController = NewGenerationController(generator)
}

func GetGenerationController() *GenerationController {
	if generationController == nil {
		InitializeGenerationController(gemini.NewFromConfig(context.Background(), config.Load().Gemini, nil))
	}
	return generationController
}

func HandleGenerate(c *fiber.Ctx) error {
	return GetGenerationController().HandleGenerate(c)
}

func HandleGenerateWithContext(c *fiber.Ctx) error {
	return GetGenerationController().HandleGenerateWithContext(c)
}

func HandleCountTokens(c *fiber.Ctx) error {
	return GetGenerationController().HandleCountTokens(c)
}

func HandleValidatePrompt(c *fiber.Ctx) error {
	return GetGenerationController().HandleValidatePrompt(c)
}

func (gc *GenerationController) HandleGenerate(c *fiber.Ctx) error {
	var req models.GenerateRequest
	if ok, err := parseRequest(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), generationTimeout)
	defer cancel()

	return generationResponse(c, gc.generator.Generate(ctx, req.Prompt, req.SystemInstruction))
}

func (gc *GenerationController) HandleGenerateWithContext(c *fiber.Ctx) error {
	var req models.ContextGenerateRequest
	if ok, err := parseRequest(c, &req); !ok {
		return err
	}

	history := make([]gemini.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, gemini.Message{Role: m.Role, Text: m.Text})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), generationTimeout)
	defer cancel()

	return generationResponse(c, gc.generator.GenerateWithContext(ctx, req.Input, history, req.SystemInstruction))
}

func (gc *GenerationController) HandleCountTokens(c *fiber.Ctx) error {
	var req models.TokenCountRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), generationTimeout)
	defer cancel()

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"model":  gc.generator.Model(),
		"tokens": gc.generator.CountTokens(ctx, req.Text),
	})
}

func (gc *GenerationController) HandleValidatePrompt(c *fiber.Ctx) error {
	var req models.PromptValidationRequest
	if ok, err := parseRequest(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), generationTimeout)
	defer cancel()

	err := gc.generator.ValidatePrompt(ctx, req.SystemPrompt, req.UserInput, req.Context)
	var limitErr *gemini.TokenLimitError
	if errors.As(err, &limitErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"valid":   false,
			"error":   "token_limit_exceeded",
			"message": limitErr.Error(),
			"tokens":  limitErr.Count,
			"limit":   limitErr.Limit,
		})
	}
	if err != nil {
		return errorJSON(c, fiber.StatusBadGateway, "validation_unavailable", err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"valid": true,
		"limit": gc.generator.PromptLimit(),
	})
}

func generationResponse(c *fiber.Ctx, res gemini.Result) error {
	counter.AddGeneration(res.Success, string(res.ErrorCode))
	if !res.Success {
		return c.Status(fiber.StatusBadGateway).JSON(res)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}
