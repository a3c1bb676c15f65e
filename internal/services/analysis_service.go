// Package services wires the pure analysis core to session state and
// telemetry. Handlers talk to these services, never to the core directly.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"auditlens/internal/actions"
	"auditlens/internal/analysis"
	"auditlens/internal/classify"
	"auditlens/internal/infrastructure"
	"auditlens/internal/session"
	"auditlens/pkg/contracts/domain"
)

// AnalysisService runs the deterministic pipeline and persists its outputs
// into session state.
type AnalysisService struct {
	sessions *session.Manager
	metrics  *infrastructure.Metrics
	logger   *slog.Logger
}

// NewAnalysisService creates the analysis service. metrics may be nil.
func NewAnalysisService(sessions *session.Manager, metrics *infrastructure.Metrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		sessions: sessions,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "analysis_service")),
	}
}

// State returns the session state for key, creating it on first access.
func (s *AnalysisService) State(ctx context.Context, key session.Key) *domain.SessionState {
	return s.sessions.Get(key)
}

// Patch deep-merges a patch tree into the session state.
func (s *AnalysisService) Patch(ctx context.Context, key session.Key, patch map[string]any) (*domain.SessionState, error) {
	state, err := s.sessions.Patch(key, patch)
	if err != nil {
		s.logger.WarnContext(ctx, "patch rejected",
			slog.String("session", key.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return state, nil
}

// Delete drops the session state for key.
func (s *AnalysisService) Delete(ctx context.Context, key session.Key) {
	s.sessions.Delete(key)
}

// ComputeMetrics derives ratios for the given periods (persisting them), or
// for the session's stored periods when the caller sends none.
func (s *AnalysisService) ComputeMetrics(ctx context.Context, key session.Key, periods []domain.PeriodDatum) (domain.FinancialMetrics, error) {
	var result domain.FinancialMetrics
	_, err := s.sessions.Update(key, func(state *domain.SessionState) error {
		if periods != nil {
			state.Periods = periods
		}
		result = analysis.ComputeMetrics(state.Periods)
		state.FinancialMetrics = &result
		return nil
	})
	return result, err
}

// ComputeAnomalies runs the anomaly detector analogously to ComputeMetrics.
func (s *AnalysisService) ComputeAnomalies(ctx context.Context, key session.Key, periods []domain.PeriodDatum) (domain.AnomalySummary, error) {
	var result domain.AnomalySummary
	_, err := s.sessions.Update(key, func(state *domain.SessionState) error {
		if periods != nil {
			state.Periods = periods
		}
		result = analysis.DetectAnomalies(state.Periods)
		state.Anomalies = &result
		return nil
	})
	return result, err
}

// ComputeAnalysis builds the full deterministic analysis, persists it, and
// derives follow-up action items from its findings.
func (s *AnalysisService) ComputeAnalysis(ctx context.Context, key session.Key, periods []domain.PeriodDatum) (*domain.DocumentAnalysis, error) {
	var result domain.DocumentAnalysis
	_, err := s.sessions.Update(key, func(state *domain.SessionState) error {
		if periods != nil {
			state.Periods = periods
		}
		result = analysis.BuildAnalysis(state.Periods)
		state.FinancialMetrics = &result.FinancialMetrics
		state.Anomalies = &result.Anomalies
		state.Analysis = &result
		state.ActionItems = actions.Derive(result, state.ActionItems)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAnalysis(ctx, len(result.Anomalies.Notes))
	s.logger.InfoContext(ctx, "analysis computed",
		slog.String("session", key.String()),
		slog.Int("periods", len(result.Trends.Periods)),
		slog.Int("anomaly_notes", len(result.Anomalies.Notes)),
	)
	return &result, nil
}

// IngestPeriods stores freshly parsed periods and recomputes every derived
// artifact, mirroring the upload flow of the analyzer UI.
func (s *AnalysisService) IngestPeriods(ctx context.Context, key session.Key, periods []domain.PeriodDatum) (*domain.SessionState, error) {
	state, err := s.sessions.Update(key, func(state *domain.SessionState) error {
		state.Periods = periods
		a := analysis.BuildAnalysis(periods)
		state.FinancialMetrics = &a.FinancialMetrics
		state.Anomalies = &a.Anomalies
		state.Analysis = &a
		state.ActionItems = actions.Derive(a, state.ActionItems)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAnalysis(ctx, len(state.Anomalies.Notes))
	s.logger.InfoContext(ctx, "periods ingested",
		slog.String("session", key.String()),
		slog.Int("periods", len(periods)),
	)
	return state, nil
}

// Classify labels raw document text.
func (s *AnalysisService) Classify(ctx context.Context, text string) domain.DocumentType {
	docType := classify.Classify(text)
	s.logger.DebugContext(ctx, "document classified",
		slog.String("document_type", string(docType)),
		slog.Int("text_len", len(text)),
	)
	return docType
}
