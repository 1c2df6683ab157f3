package game

import "scm-game/internal/models"

// ApplyImpact returns a new snapshot with each impacted metric shifted and
// clamped to [0,100]. Metrics absent from the impact map are carried over
// unchanged and unknown impact keys are ignored, so the function is total:
// any impact map from the generative source is safe to apply.
func ApplyImpact(current models.ScoreSnapshot, impact map[models.Metric]int) models.ScoreSnapshot {
	next := make(models.ScoreSnapshot, len(models.AllMetrics))
	for _, m := range models.AllMetrics {
		v := current[m]
		if delta, ok := impact[m]; ok {
			v = clamp(v+delta, 0, 100)
		}
		next[m] = v
	}
	return next
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
