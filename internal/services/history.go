package services

import (
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"resume-chat-backend/internal/models"
)

// BuildHistory converts caller history into Gemini chat contents, keeping
// order. Role "user" stays "user"; every other role becomes "model" unless
// strict is set, in which case only "user" and "model" are accepted.
func BuildHistory(history []models.ChatMessage, strict bool) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(history))

	for i, msg := range history {
		if len(msg.Parts) == 0 {
			return nil, newValidationError(fmt.Sprintf("history[%d].parts", i), "must contain at least one part")
		}
		if msg.Parts[0].Text == nil {
			return nil, newValidationError(fmt.Sprintf("history[%d].parts[0].text", i), "is required")
		}

		role := models.RoleModel
		switch msg.Role {
		case models.RoleUser:
			role = models.RoleUser
		case models.RoleModel:
		default:
			if strict {
				return nil, newValidationError(fmt.Sprintf("history[%d].role", i), fmt.Sprintf("unknown role %q", msg.Role))
			}
		}

		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(*msg.Parts[0].Text)},
		})
	}

	return contents, nil
}
