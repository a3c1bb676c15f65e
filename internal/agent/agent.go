package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"auditlens/pkg/contracts/domain"
)

const systemPrompt = `You are an audit assistant that analyzes financial documents.
Respond with a single JSON object shaped like a DocumentAnalysis:
{"executiveSummary": {...}, "financialMetrics": {...}, "complianceAndRisk": {...},
"trends": {...}, "anomalies": {...}, "aiSuggestions": [...], "risks": [...], "opportunities": [...]}.
All numeric values must be JSON numbers, never strings.`

// Config bounds how much raw document text one agent run may carry in its
// context messages.
type Config struct {
	MaxChunks int
	ChunkSize int
}

// Agent turns a message list into a completion and, when the completion
// passes the shape guard, a replacement DocumentAnalysis.
type Agent struct {
	provider Provider
	cfg      Config
	logger   *slog.Logger
}

// Response is the outcome of one agent run. Analysis is nil whenever the
// model's output failed the shape guard; that failure is silent by contract.
type Response struct {
	NewMessages []domain.AgentMessage
	Analysis    *domain.DocumentAnalysis
	Usage       Usage
}

// New creates an agent over the given provider.
func New(provider Provider, cfg Config, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "agent")),
	}
}

// Run sends the conversation to the model. System and context messages fold
// into the system prompt, everything else becomes the user prompt. Context
// message bodies are clipped to the configured chunk budget first.
func (a *Agent) Run(ctx context.Context, messages []domain.AgentMessage) (*Response, error) {
	system, prompt := foldMessages(a.boundContext(messages))

	result, err := a.provider.Generate(ctx, system, prompt)
	if err != nil {
		return nil, fmt.Errorf("agent run: %w", err)
	}

	resp := &Response{
		NewMessages: []domain.AgentMessage{
			{Role: domain.RoleAssistant, Content: result.Text},
		},
		Usage: result.Usage,
	}

	if analysis, ok := ExtractAnalysis(result.Text); ok {
		resp.Analysis = analysis
	} else {
		a.logger.DebugContext(ctx, "agent response failed shape guard, keeping prior analysis",
			slog.Int("response_len", len(result.Text)),
		)
	}
	return resp, nil
}

// boundContext clips oversized context messages so pasted documents cannot
// blow the prompt budget. Other roles pass through unchanged.
func (a *Agent) boundContext(messages []domain.AgentMessage) []domain.AgentMessage {
	if a.cfg.ChunkSize <= 0 || a.cfg.MaxChunks <= 0 {
		return messages
	}
	budget := a.cfg.ChunkSize * a.cfg.MaxChunks
	out := make([]domain.AgentMessage, len(messages))
	for i, m := range messages {
		if m.Role == domain.RoleContext && len(m.Content) > budget {
			m.Content = strings.Join(ChunkText(m.Content, a.cfg.ChunkSize, a.cfg.MaxChunks), "")
		}
		out[i] = m
	}
	return out
}

func foldMessages(messages []domain.AgentMessage) (system, prompt string) {
	var sys, usr []string
	sys = append(sys, systemPrompt)
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			sys = append(sys, m.Content)
		case domain.RoleContext:
			sys = append(sys, "Context: "+m.Content)
		default:
			usr = append(usr, m.Content)
		}
	}
	return strings.Join(sys, "\n\n"), strings.Join(usr, "\n\n")
}

// ExtractAnalysis applies the shape guard to a model response. The text is
// run through JSON repair first (models wrap output in fences, drop quotes,
// leave trailing commas), then must decode with non-null executiveSummary,
// financialMetrics and complianceAndRisk keys. Anything less is rejected and
// the caller keeps its prior analysis.
func ExtractAnalysis(text string) (*domain.DocumentAnalysis, bool) {
	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return nil, false
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(repaired), &probe); err != nil {
		return nil, false
	}
	for _, key := range []string{"executiveSummary", "financialMetrics", "complianceAndRisk"} {
		raw, ok := probe[key]
		if !ok || string(raw) == "null" {
			return nil, false
		}
	}

	var analysis domain.DocumentAnalysis
	if err := json.Unmarshal([]byte(repaired), &analysis); err != nil {
		return nil, false
	}
	return &analysis, true
}

// ChunkText slices raw document text into at most maxChunks pieces of
// chunkSize bytes for the user prompt. Text beyond the budget is dropped,
// matching the upload flow's bounded context window.
func ChunkText(text string, chunkSize, maxChunks int) []string {
	if chunkSize <= 0 || maxChunks <= 0 {
		return nil
	}
	var chunks []string
	limit := len(text)
	if budget := chunkSize * maxChunks; limit > budget {
		limit = budget
	}
	for i := 0; i < limit; i += chunkSize {
		end := i + chunkSize
		if end > limit {
			end = limit
		}
		chunks = append(chunks, text[i:end])
	}
	return chunks
}
