package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/minhngoc/olympia/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Client is the single gateway to the language model. All three call sites
// (chunk extraction, answer grading, audio transcription) go through it.
type Client interface {
	// Generate sends a system instruction plus a user message and returns the
	// raw text of the reply.
	Generate(ctx context.Context, system, user string) (string, error)
	// GenerateJSON requests a JSON reply. The first attempt constrains the
	// response MIME type; if that attempt fails, it retries exactly once
	// without the constraint.
	GenerateJSON(ctx context.Context, system, user string) (string, error)
	// Transcribe converts an audio recording to text.
	Transcribe(ctx context.Context, mimeType string, audio []byte) (string, error)
}

type geminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(cfg *config.Config) (Client, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. LLM-backed features will be non-functional.")
		return &geminiClient{client: nil, modelName: cfg.GeminiModel}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiClient{client: client, modelName: cfg.GeminiModel}, nil
}

func (c *geminiClient) Generate(ctx context.Context, system, user string) (string, error) {
	return c.generate(ctx, system, []genai.Part{genai.Text(user)}, false)
}

func (c *geminiClient) GenerateJSON(ctx context.Context, system, user string) (string, error) {
	out, err := c.generate(ctx, system, []genai.Part{genai.Text(user)}, true)
	if err != nil {
		log.Warn().Err(err).Msg("Structured output request failed, retrying without JSON response constraint")
		return c.generate(ctx, system, []genai.Part{genai.Text(user)}, false)
	}
	return out, nil
}

func (c *geminiClient) Transcribe(ctx context.Context, mimeType string, audio []byte) (string, error) {
	parts := []genai.Part{
		genai.Blob{MIMEType: mimeType, Data: audio},
		genai.Text("Transcribe this audio recording. Return only the transcribed text, nothing else."),
	}
	return c.generate(ctx, "", parts, false)
}

func (c *geminiClient) generate(ctx context.Context, system string, parts []genai.Part, jsonOutput bool) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	model := c.client.GenerativeModel(c.modelName)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if jsonOutput {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		log.Error().Err(err).Str("model", c.modelName).Msg("Gemini API error")
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response")
		return "", fmt.Errorf("gemini returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return sb.String(), nil
}

// StripCodeFence removes the ```/```json markers the model sometimes wraps
// around a JSON payload.
func StripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:]
	} else {
		t = strings.TrimPrefix(t, "json")
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}
