package logstore

import (
	"strings"

	"github.com/cpdlog/cpdlog/internal/domain"
)

// ByCategory returns all records with the given category, newest first.
func (s *Store) ByCategory(category domain.Category) []domain.CpdLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.CpdLog
	for i := range s.logs {
		if s.logs[i].Category == category {
			out = append(out, s.logs[i].Clone())
		}
	}
	return out
}

// ByDateRange returns all records whose CreatedAt falls within
// [start, end], both bounds inclusive, in milliseconds since epoch.
func (s *Store) ByDateRange(start, end int64) []domain.CpdLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.CpdLog
	for i := range s.logs {
		created := s.logs[i].CreatedAt
		if created >= start && created <= end {
			out = append(out, s.logs[i].Clone())
		}
	}
	return out
}

// Search returns all records whose text, category, or any tag contains
// query, case-insensitively. An empty query matches every record, since
// the empty string is a substring of anything.
func (s *Store) Search(query string) []domain.CpdLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var out []domain.CpdLog
	for i := range s.logs {
		if matches(&s.logs[i], q) {
			out = append(out, s.logs[i].Clone())
		}
	}
	return out
}

func matches(l *domain.CpdLog, q string) bool {
	if strings.Contains(strings.ToLower(l.Text), q) {
		return true
	}
	if strings.Contains(strings.ToLower(string(l.Category)), q) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
