package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"resume-chat-backend/internal/models"
)

func TestNewGeminiService_Defaults(t *testing.T) {
	s := NewGeminiService(GeminiOptions{})

	if s.opts.ValidateModel != "gemini-2.5-flash-lite" {
		t.Errorf("unexpected validate model %q", s.opts.ValidateModel)
	}
	if s.opts.GenerateModel != "gemini-2.5-flash" {
		t.Errorf("unexpected generate model %q", s.opts.GenerateModel)
	}
	if s.opts.ProbeMessage != "test" {
		t.Errorf("unexpected probe %q", s.opts.ProbeMessage)
	}
}

func TestGenerate_RejectsEmptyMessage(t *testing.T) {
	s := NewGeminiService(GeminiOptions{})

	_, err := s.Generate(context.Background(), "key", nil, "   ")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["message"] != "is required" {
		t.Errorf("unexpected fields: %v", verr.Fields)
	}
}

func TestGenerate_MalformedHistoryFailsBeforeProvider(t *testing.T) {
	s := NewGeminiService(GeminiOptions{})
	history := []models.ChatMessage{{Role: "user"}}

	_, err := s.Generate(context.Background(), "key", history, "hi")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestGenerate_StrictRolesFromOptions(t *testing.T) {
	s := NewGeminiService(GeminiOptions{StrictRoles: true})
	history := []models.ChatMessage{{Role: "assistant", Parts: []models.Part{models.TextPart("x")}}}

	_, err := s.Generate(context.Background(), "key", history, "hi")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEmptyAPIKeyIsCredentialError(t *testing.T) {
	s := NewGeminiService(GeminiOptions{})

	checks := map[string]error{
		"validate": s.ValidateKey(context.Background(), ""),
	}
	_, err := s.Generate(context.Background(), "", nil, "hi")
	checks["generate"] = err

	for name, err := range checks {
		var pe *ProviderError
		if !errors.As(err, &pe) || pe.Kind != KindCredential {
			t.Errorf("%s: expected credential ProviderError, got %v", name, err)
		}
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("world")}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}

	if got := extractText(resp); got != "Hello, world" {
		t.Errorf("expected %q, got %q", "Hello, world", got)
	}
	if got := extractText(&genai.GenerateContentResponse{}); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
	if got := extractText(nil); got != "" {
		t.Errorf("expected empty text for nil response, got %q", got)
	}
}
