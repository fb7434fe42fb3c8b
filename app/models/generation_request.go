package models

type GenerateRequest struct {
	Prompt            string `json:"prompt" validate:"required"`
	SystemInstruction string `json:"system_instruction"`
}

func (r *GenerateRequest) Validate() error {
	return validate.Struct(r)
}

type HistoryMessage struct {
	Role string `json:"role" validate:"omitempty,max=32"`
	Text string `json:"text"`
}

type ContextGenerateRequest struct {
	Input             string           `json:"input" validate:"required"`
	History           []HistoryMessage `json:"history" validate:"omitempty,dive"`
	SystemInstruction string           `json:"system_instruction"`
}

func (r *ContextGenerateRequest) Validate() error {
	return validate.Struct(r)
}

// TokenCountRequest allows an empty text, it counts as zero tokens.
type TokenCountRequest struct {
	Text string `json:"text"`
}

type PromptValidationRequest struct {
	SystemPrompt string `json:"system_prompt"`
	UserInput    string `json:"user_input" validate:"required"`
	Context      string `json:"context"`
}

func (r *PromptValidationRequest) Validate() error {
	return validate.Struct(r)
}
