package gemini

import (
	"context"
	"strings"
)

const roleUser = "user"

// Message is one earlier turn of a conversation.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// BuildContextPrompt renders the history as "User: ..." and
// "Assistant: ..." lines separated by blank lines, followed by the current
// input. Any role other than "user" is rendered as the assistant; an empty
// role counts as the user.
func BuildContextPrompt(userInput string, history []Message) string {
	parts := make([]string, 0, len(history)+1)
	for _, msg := range history {
		role := msg.Role
		if role == "" {
			role = roleUser
		}
		if role == roleUser {
			parts = append(parts, "User: "+msg.Text)
		} else {
			parts = append(parts, "Assistant: "+msg.Text)
		}
	}
	parts = append(parts, "User: "+userInput)
	return strings.Join(parts, "\n\n")
}

func (a *Adapter) GenerateWithContext(ctx context.Context, userInput string, history []Message, systemInstruction string) Result {
	return a.Generate(ctx, BuildContextPrompt(userInput, history), systemInstruction)
}
