package models

// Part is one text fragment of a message. Only the first part is read.
// Text is nil when the field is absent from the payload.
type Part struct {
	Text *string `json:"text"`
}

func TextPart(text string) Part {
	return Part{Text: &text}
}

// ChatMessage represents a single turn of a conversation.
type ChatMessage struct {
	Role  string `json:"role"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// GenerateRequest is the payload sent to the generate endpoints.
type GenerateRequest struct {
	History []ChatMessage `json:"history"`
	Message string        `json:"message"`
}

// ValidateResponse is returned when a key passes the probe.
type ValidateResponse struct {
	Status string `json:"status"`
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)
