package services

import (
	"context"
	"log/slog"
	"time"

	"auditlens/internal/actions"
	"auditlens/internal/agent"
	"auditlens/internal/infrastructure"
	"auditlens/internal/session"
	"auditlens/pkg/contracts/domain"
)

// AgentRunResult is what one agent round trip produced for the caller.
type AgentRunResult struct {
	NewMessages []domain.AgentMessage    `json:"newMessages"`
	Analysis    *domain.DocumentAnalysis `json:"analysis,omitempty"`
	Replaced    bool                     `json:"replaced"`
}

// AgentService runs the LLM agent against a session and applies the
// replacement contract: a response that passes the shape guard replaces the
// session analysis, anything else leaves prior state untouched.
type AgentService struct {
	runner   *agent.Agent
	sessions *session.Manager
	metrics  *infrastructure.Metrics
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAgentService creates the agent service. runner may be nil, in which
// case every run reports ErrAgentDisabled.
func NewAgentService(runner *agent.Agent, sessions *session.Manager, metrics *infrastructure.Metrics, timeout time.Duration, logger *slog.Logger) *AgentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AgentService{
		runner:   runner,
		sessions: sessions,
		metrics:  metrics,
		timeout:  timeout,
		logger:   logger.With(slog.String("component", "agent_service")),
	}
}

// Enabled reports whether an agent provider is configured.
func (s *AgentService) Enabled() bool {
	return s.runner != nil
}

// Run sends the conversation to the agent and folds the outcome into the
// session: token usage always accumulates; the analysis is replaced only
// when the shape guard accepted the response, and then action items are
// re-derived from the new analysis.
func (s *AgentService) Run(ctx context.Context, key session.Key, messages []domain.AgentMessage) (*AgentRunResult, error) {
	if s.runner == nil {
		return nil, ErrAgentDisabled
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.runner.Run(runCtx, messages)
	if err != nil {
		s.metrics.RecordAgentRun(ctx, false, 0, 0)
		return nil, err
	}

	accepted := resp.Analysis != nil
	s.metrics.RecordAgentRun(ctx, accepted, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	_, err = s.sessions.Update(key, func(state *domain.SessionState) error {
		state.TokenUsage.PromptTokens += resp.Usage.PromptTokens
		state.TokenUsage.CompletionTokens += resp.Usage.CompletionTokens
		state.TokenUsage.TotalTokens += resp.Usage.TotalTokens
		if accepted {
			state.Analysis = resp.Analysis
			state.FinancialMetrics = &resp.Analysis.FinancialMetrics
			state.Anomalies = &resp.Analysis.Anomalies
			state.ActionItems = actions.Derive(*resp.Analysis, state.ActionItems)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "agent run completed",
		slog.String("session", key.String()),
		slog.Bool("analysis_replaced", accepted),
		slog.Int64("total_tokens", resp.Usage.TotalTokens),
	)

	return &AgentRunResult{
		NewMessages: resp.NewMessages,
		Analysis:    resp.Analysis,
		Replaced:    accepted,
	}, nil
}
