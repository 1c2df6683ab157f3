package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scm-game/internal/models"
)

func TestTierFor(t *testing.T) {
	cases := []struct {
		average float64
		want    Tier
	}{
		{100, TierOutstanding},
		{90, TierOutstanding},
		{89.9, TierGood},
		{75, TierGood},
		{74.9, TierRoomToImprove},
		{60, TierRoomToImprove},
		{59.9, TierLearningOpp},
		{0, TierLearningOpp},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TierFor(tc.average), "average %.1f", tc.average)
	}
}

func TestFinalReportRequiresCompletion(t *testing.T) {
	s := NewSession(newStubContent())
	require.NoError(t, s.Start())

	_, err := s.FinalReport(context.Background())
	assert.Error(t, err)
}

func TestFinalReport(t *testing.T) {
	s := NewSession(newStubContent())
	require.NoError(t, s.Start())
	playThrough(t, s, "A") // option A: cost -5, resilience +5 (clamped) each time

	report, err := s.FinalReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50, report.Scores[models.CostEfficiency])
	assert.Equal(t, -50, report.Deltas[models.CostEfficiency])
	assert.Equal(t, 0, report.Deltas[models.Resilience])
	assert.InDelta(t, 87.5, report.Average, 1e-9)
	assert.Equal(t, TierGood, report.Tier)
	assert.Equal(t, "stub overview", report.Analysis.Overview)
	assert.Len(t, report.Decisions, 10)
	assert.Len(t, report.Feedback, 10)
}

func TestReportBuiltBeforeRestartIsRejected(t *testing.T) {
	s := NewSession(newStubContent())
	require.NoError(t, s.Start())
	playThrough(t, s, "A")

	req, err := s.ReportRequest()
	require.NoError(t, err)
	report := req.Build(context.Background())
	require.NoError(t, s.VerifyReport(req))
	assert.Equal(t, TierGood, report.Tier)

	s.Restart()
	assert.ErrorIs(t, s.VerifyReport(req), ErrStaleRequest)
}
