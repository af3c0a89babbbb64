package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"resume-chat-backend/internal/models"
)

type GeminiOptions struct {
	ValidateModel string
	GenerateModel string
	ProbeMessage  string
	Temperature   *float32
	// Timeout bounds each provider call. Zero means no deadline.
	Timeout     time.Duration
	StrictRoles bool
	// ClientOptions are appended after the API key, e.g. an endpoint override.
	ClientOptions []option.ClientOption
}

// GeminiService opens a fresh client per call; the credential arrives with
// each request.
type GeminiService struct {
	opts GeminiOptions
}

func NewGeminiService(opts GeminiOptions) *GeminiService {
	if opts.ValidateModel == "" {
		opts.ValidateModel = "gemini-2.5-flash-lite"
	}
	if opts.GenerateModel == "" {
		opts.GenerateModel = "gemini-2.5-flash"
	}
	if opts.ProbeMessage == "" {
		opts.ProbeMessage = "test"
	}
	return &GeminiService{opts: opts}
}

// ValidateKey sends the probe message on an empty chat. Any failure means
// the key is not usable.
func (s *GeminiService) ValidateKey(ctx context.Context, apiKey string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	client, err := s.newClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	cs := s.model(client, s.opts.ValidateModel).StartChat()
	if _, err := cs.SendMessage(ctx, genai.Text(s.opts.ProbeMessage)); err != nil {
		return classifyProviderError(err)
	}
	return nil
}

// Generate seeds a chat with history, sends message and returns the reply
// text unchanged.
func (s *GeminiService) Generate(ctx context.Context, apiKey string, history []models.ChatMessage, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", newValidationError("message", "is required")
	}

	contents, err := BuildHistory(history, s.opts.StrictRoles)
	if err != nil {
		return "", err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	client, err := s.newClient(ctx, apiKey)
	if err != nil {
		return "", err
	}
	defer client.Close()

	cs := s.model(client, s.opts.GenerateModel).StartChat()
	cs.History = contents

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", classifyProviderError(err)
	}

	return extractText(resp), nil
}

func (s *GeminiService) newClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	// Without a key the SDK would fall back to ambient Google credentials.
	if apiKey == "" {
		return nil, errNoAPIKey()
	}

	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, s.opts.ClientOptions...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, classifyProviderError(fmt.Errorf("failed to create Gemini client: %w", err))
	}
	return client, nil
}

func (s *GeminiService) model(client *genai.Client, name string) *genai.GenerativeModel {
	model := client.GenerativeModel(name)
	if s.opts.Temperature != nil {
		model.SetTemperature(*s.opts.Temperature)
	}
	return model
}

func (s *GeminiService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout > 0 {
		return context.WithTimeout(ctx, s.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}
