package game

import (
	"context"

	"scm-game/internal/models"
)

// Tier is the qualitative rating derived from the average final score.
type Tier string

const (
	TierOutstanding   Tier = "Outstanding"
	TierGood          Tier = "Good Performance"
	TierRoomToImprove Tier = "Room for Improvement"
	TierLearningOpp   Tier = "Learning Opportunity"
)

// TierFor maps an average score to its rating tier.
func TierFor(average float64) Tier {
	switch {
	case average >= 90:
		return TierOutstanding
	case average >= 75:
		return TierGood
	case average >= 60:
		return TierRoomToImprove
	default:
		return TierLearningOpp
	}
}

// Report is the end-of-game summary shown on the completion screen.
type Report struct {
	Scores    models.ScoreSnapshot
	Deltas    map[models.Metric]int
	Average   float64
	Tier      Tier
	Analysis  models.AnalysisReport
	Decisions []models.Decision
	Feedback  []models.FeedbackEntry
}

// FinalReport aggregates the completed run: per-metric deltas from the
// starting baseline, the average and its tier, and the generated narrative
// analysis. The session itself is not mutated.
func (s *Session) FinalReport(ctx context.Context) (*Report, error) {
	req, err := s.ReportRequest()
	if err != nil {
		return nil, err
	}
	return req.Build(ctx), nil
}

// ReportRequest is an immutable snapshot of a completed run, so the report
// (and its analysis fetch) can be built without touching the session.
type ReportRequest struct {
	scores     models.ScoreSnapshot
	decisions  []models.Decision
	feedback   []models.FeedbackEntry
	client     models.ClientProfile
	content    ContentSource
	generation uint64
}

// ReportRequest snapshots the completed run's report inputs.
func (s *Session) ReportRequest() (ReportRequest, error) {
	if !s.Complete() {
		return ReportRequest{}, ErrNotStarted
	}
	return ReportRequest{
		scores:     s.scores.Clone(),
		decisions:  append([]models.Decision(nil), s.decisions...),
		feedback:   append([]models.FeedbackEntry(nil), s.feedback...),
		client:     s.client,
		content:    s.content,
		generation: s.generation,
	}, nil
}

// Build produces the report described by the request. It reads no session
// state, so it is safe to call from another goroutine.
func (r ReportRequest) Build(ctx context.Context) *Report {
	deltas := make(map[models.Metric]int, len(models.AllMetrics))
	for _, m := range models.AllMetrics {
		deltas[m] = r.scores[m] - models.InitialScore
	}
	average := r.scores.Average()

	return &Report{
		Scores:    r.scores,
		Deltas:    deltas,
		Average:   average,
		Tier:      TierFor(average),
		Analysis:  r.content.FetchAnalysis(ctx, r.scores, r.decisions, r.feedback, r.client),
		Decisions: r.decisions,
		Feedback:  r.feedback,
	}
}

// VerifyReport reports whether a built report still belongs to this run.
// It fails with ErrStaleRequest after a restart.
func (s *Session) VerifyReport(req ReportRequest) error {
	if req.generation != s.generation {
		return ErrStaleRequest
	}
	if !s.Complete() {
		return ErrNotStarted
	}
	return nil
}
