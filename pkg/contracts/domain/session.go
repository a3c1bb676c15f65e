package domain

import "time"

// Priority ranks an action item.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ActionItem is a follow-up task derived from analysis findings or added by
// the auditor. Identity for dedup purposes is the case-insensitive trimmed
// title, not the ID.
type ActionItem struct {
	ID        string   `json:"id" validate:"required"`
	Title     string   `json:"title" validate:"required"`
	Owner     string   `json:"owner"`
	Priority  Priority `json:"priority" validate:"oneof=Low Medium High"`
	Completed bool     `json:"completed"`
}

// TokenUsage accumulates agent token counters for a session.
type TokenUsage struct {
	PromptTokens     int64 `json:"promptTokens"`
	CompletionTokens int64 `json:"completionTokens"`
	TotalTokens      int64 `json:"totalTokens"`
}

// SessionState is the per-(tenant,session) working state. It is created
// lazily on first access and mutated through deep-merge patches.
type SessionState struct {
	Periods          []PeriodDatum     `json:"periods,omitempty"`
	FinancialMetrics *FinancialMetrics `json:"financialMetrics,omitempty"`
	Anomalies        *AnomalySummary   `json:"anomalies,omitempty"`
	Analysis         *DocumentAnalysis `json:"analysis,omitempty"`
	ActionItems      []ActionItem      `json:"actionItems,omitempty"`
	TokenUsage       TokenUsage        `json:"tokenUsage"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// AgentRole is the speaker of one agent conversation message.
type AgentRole string

const (
	RoleUser      AgentRole = "user"
	RoleSystem    AgentRole = "system"
	RoleAssistant AgentRole = "assistant"
	RoleContext   AgentRole = "context"
)

// AgentMessage is one turn of the agent conversation.
type AgentMessage struct {
	Role    AgentRole `json:"role" validate:"required,oneof=user system assistant context"`
	Content string    `json:"content" validate:"required"`
}
