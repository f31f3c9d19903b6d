package logstore

import "github.com/cpdlog/cpdlog/internal/domain"

// Statistics derives the progress view from the current collection.
// It is recomputed from scratch on every call; callers wanting reactive
// statistics recompute inside their subscriber.
func (s *Store) Statistics() domain.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeStatistics(s.logs, s.targetHours)
}

// computeStatistics is a pure function of the list and the target.
func computeStatistics(logs []domain.CpdLog, targetHours float64) domain.Statistics {
	stats := domain.Statistics{
		TotalActivities:   len(logs),
		CategoryBreakdown: make(map[domain.Category]float64),
		TargetHours:       targetHours,
	}

	for i := range logs {
		stats.TotalHours += logs[i].Hours
		stats.CategoryBreakdown[logs[i].Category] += logs[i].Hours
		if logs[i].IsVoiceGenerated {
			stats.VoiceGeneratedCount++
		}
	}

	if stats.TotalHours > 0 && targetHours > 0 {
		pct := stats.TotalHours / targetHours * 100
		if pct > 100 {
			pct = 100
		}
		stats.ProgressPercentage = pct
	}

	remaining := targetHours - stats.TotalHours
	if remaining < 0 {
		remaining = 0
	}
	stats.RemainingHours = remaining

	return stats
}
