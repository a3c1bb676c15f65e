package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditlens/internal/session"
	"auditlens/pkg/contracts/domain"
)

func newTestAnalysisService(t *testing.T) *AnalysisService {
	t.Helper()
	manager := session.NewManager(session.NewMemoryStore(), nil)
	return NewAnalysisService(manager, nil, nil)
}

func testKey(s string) session.Key {
	return session.Key{Tenant: "public", Session: s}
}

func samplePeriods() []domain.PeriodDatum {
	return []domain.PeriodDatum{
		{PeriodLabel: "Q1", Revenue: domain.Float(1000), CostOfGoodsSold: domain.Float(400)},
		{PeriodLabel: "Q2", Revenue: domain.Float(1100), CostOfGoodsSold: domain.Float(450)},
	}
}

func TestAnalysisService_ComputeMetricsPersistsPeriods(t *testing.T) {
	svc := newTestAnalysisService(t)
	ctx := context.Background()
	key := testKey("s1")

	metrics, err := svc.ComputeMetrics(ctx, key, samplePeriods())
	require.NoError(t, err)
	require.NotNil(t, metrics.Profitability.GrossMargin)

	state := svc.State(ctx, key)
	assert.Len(t, state.Periods, 2)
	require.NotNil(t, state.FinancialMetrics)
	assert.Equal(t, metrics, *state.FinancialMetrics)
}

func TestAnalysisService_ComputeMetricsUsesStoredPeriods(t *testing.T) {
	svc := newTestAnalysisService(t)
	ctx := context.Background()
	key := testKey("s1")

	_, err := svc.ComputeMetrics(ctx, key, samplePeriods())
	require.NoError(t, err)

	// nil periods means "use what the session already has".
	metrics, err := svc.ComputeMetrics(ctx, key, nil)
	require.NoError(t, err)
	require.NotNil(t, metrics.Profitability.GrossMargin)

	state := svc.State(ctx, key)
	assert.Len(t, state.Periods, 2)
}

func TestAnalysisService_EmptyNonNilPeriodsClearsHistory(t *testing.T) {
	svc := newTestAnalysisService(t)
	ctx := context.Background()
	key := testKey("s1")

	_, err := svc.ComputeMetrics(ctx, key, samplePeriods())
	require.NoError(t, err)

	metrics, err := svc.ComputeMetrics(ctx, key, []domain.PeriodDatum{})
	require.NoError(t, err)
	assert.Equal(t, domain.FinancialMetrics{}, metrics)

	state := svc.State(ctx, key)
	assert.Empty(t, state.Periods)
}

func TestAnalysisService_ComputeAnomalies(t *testing.T) {
	svc := newTestAnalysisService(t)
	ctx := context.Background()
	key := testKey("s1")

	anomalies, err := svc.ComputeAnomalies(ctx, key, samplePeriods())
	require.NoError(t, err)
	assert.NotNil(t, anomalies.Notes)

	state := svc.State(ctx, key)
	require.NotNil(t, state.Anomalies)
}

func TestAnalysisService_ComputeAnalysisDerivesActionItems(t *testing.T) {
	svc := newTestAnalysisService(t)
	ctx := context.Background()
	key := testKey("s1")

	// Liabilities missing from the latest period yields a compliance finding,
	// which must surface as a derived action item.
	periods := []domain.PeriodDatum{{
		PeriodLabel: "Q1",
		Revenue:     domain.Float(1000),
		NetIncome:   domain.Float(100),
		Assets:      domain.Float(500),
	}}

	result, err := svc.ComputeAnalysis(ctx, key, periods)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Contains(t, result.ComplianceAndRisk.MissingOrInconsistent, "Missing liabilities in latest period")

	state := svc.State(ctx, key)
	require.NotNil(t, state.Analysis)
	require.NotNil(t, state.FinancialMetrics)
	require.NotNil(t, state.Anomalies)
	require.NotEmpty(t, state.ActionItems)
	assert.Equal(t, "Resolve: Missing liabilities in latest period", state.ActionItems[0].Title)
}

func TestAnalysisService_ComputeAnalysisIsIdempotentForActionItems(t *testing.T) {
	svc := newTestAnalysisService(t)
	ctx := context.Background()
	key := testKey("s1")

	periods := []domain.PeriodDatum{{PeriodLabel: "Q1"}}

	_, err := svc.ComputeAnalysis(ctx, key, periods)
	require.NoError(t, err)
	first := svc.State(ctx, key).ActionItems

	_, err = svc.ComputeAnalysis(ctx, key, nil)
	require.NoError(t, err)
	second := svc.State(ctx, key).ActionItems

	assert.Equal(t, len(first), len(second))
}

func TestAnalysisService_IngestPeriods(t *testing.T) {
	svc := newTestAnalysisService(t)
	ctx := context.Background()
	key := testKey("s1")

	state, err := svc.IngestPeriods(ctx, key, samplePeriods())
	require.NoError(t, err)

	assert.Len(t, state.Periods, 2)
	require.NotNil(t, state.Analysis)
	require.NotNil(t, state.FinancialMetrics)
	require.NotNil(t, state.Anomalies)
}

func TestAnalysisService_PatchInvalidShape(t *testing.T) {
	svc := newTestAnalysisService(t)
	ctx := context.Background()
	key := testKey("s1")

	_, err := svc.Patch(ctx, key, map[string]any{"periods": "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestAnalysisService_PatchAndDelete(t *testing.T) {
	svc := newTestAnalysisService(t)
	ctx := context.Background()
	key := testKey("s1")

	state, err := svc.Patch(ctx, key, map[string]any{
		"tokenUsage": map[string]any{"totalTokens": 5.0},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), state.TokenUsage.TotalTokens)

	svc.Delete(ctx, key)
	fresh := svc.State(ctx, key)
	assert.Equal(t, int64(0), fresh.TokenUsage.TotalTokens)
}

func TestAnalysisService_Classify(t *testing.T) {
	svc := newTestAnalysisService(t)
	ctx := context.Background()

	assert.Equal(t, domain.DocTypeAuditReport, svc.Classify(ctx, "audit opinion"))
	assert.Equal(t, domain.DocTypeUnknown, svc.Classify(ctx, "lorem ipsum"))
}
