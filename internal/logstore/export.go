package logstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cpdlog/cpdlog/internal/domain"
)

// ErrInvalidImport is the only error Import surfaces for a rejected
// payload. The underlying diagnostic is logged, never returned.
var ErrInvalidImport = errors.New("invalid import data format")

// Export serializes the export envelope (date, current statistics, full
// collection) as pretty-printed JSON.
func (s *Store) Export() (string, error) {
	s.mu.Lock()
	env := domain.Export{
		ExportDate: s.now().UTC().Format(time.RFC3339),
		Statistics: computeStatistics(s.logs, s.targetHours),
		Logs:       copyLogs(s.logs),
	}
	s.mu.Unlock()

	if env.Logs == nil {
		env.Logs = []domain.CpdLog{}
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	return string(data), nil
}

// Import replaces the whole collection with the logs array of the given
// JSON payload, persists, and notifies. Any malformed payload — JSON
// that does not parse, a missing logs property, or a logs property that
// is not an array — is rejected with ErrInvalidImport. On any failure,
// including a failed persistence write, the previous collection is
// restored before the error is returned.
func (s *Store) Import(ctx context.Context, data string) error {
	logs, err := parseImport(data)
	if err != nil {
		s.log.ImportError(err)
		return ErrInvalidImport
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.logs
	s.logs = logs

	if err := s.persist(ctx); err != nil {
		s.logs = prev
		s.log.ImportError(err)
		return ErrInvalidImport
	}

	s.notifyLocked()
	s.log.StoreEvent("import", len(s.logs))
	return nil
}

// parseImport extracts the logs array. All other envelope properties
// (exportDate, statistics) are ignored.
func parseImport(data string) ([]domain.CpdLog, error) {
	var payload struct {
		Logs json.RawMessage `json:"logs"`
	}
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	if payload.Logs == nil || bytes.Equal(bytes.TrimSpace(payload.Logs), []byte("null")) {
		return nil, errors.New("payload has no logs array")
	}

	var logs []domain.CpdLog
	if err := json.Unmarshal(payload.Logs, &logs); err != nil {
		return nil, fmt.Errorf("parse logs array: %w", err)
	}
	return logs, nil
}
