// Package agent runs the LLM narrative pass over a session's analysis and
// decides, via a shallow shape guard, whether the model's answer may replace
// the deterministic analysis.
package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Usage reports token consumption for one generation call.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Result is one model completion.
type Result struct {
	Text  string
	Usage Usage
}

// Provider generates a completion for a prompt. Implementations own their
// transport, timeout and retry behavior.
type Provider interface {
	Generate(ctx context.Context, systemPrompt, prompt string) (*Result, error)
}

// GeminiProvider calls the Gemini API through the official GenAI SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a provider for the given model.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Generate requests a JSON completion. The response MIME type is pinned to
// application/json because every agent prompt asks for a DocumentAnalysis
// object.
func (p *GeminiProvider) Generate(ctx context.Context, systemPrompt, prompt string) (*Result, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.1)),
		ResponseMIMEType: "application/json",
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	out := &Result{Text: result.Text()}
	if result.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int64(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int64(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int64(result.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}
