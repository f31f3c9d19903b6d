package logstore

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/cpdlog/cpdlog/internal/domain"
)

func TestExport_Envelope(t *testing.T) {
	s, _ := newTestStore(t)
	mustAdd(t, s, NewLog{Text: "entry", Category: domain.CategoryEducation, Hours: 3})

	out, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}

	var env domain.Export
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if env.ExportDate == "" {
		t.Error("exportDate missing")
	}
	if env.Statistics.TotalHours != 3 || env.Statistics.TargetHours != 35 {
		t.Errorf("statistics = %+v", env.Statistics)
	}
	if len(env.Logs) != 1 || env.Logs[0].Text != "entry" {
		t.Errorf("logs = %+v", env.Logs)
	}
}

func TestExport_EmptyCollection(t *testing.T) {
	s, _ := newTestStore(t)

	out, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}

	var env struct {
		Logs json.RawMessage `json:"logs"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatal(err)
	}
	// Empty collection must still export an array, not null.
	if string(env.Logs) != "[]" {
		t.Errorf("logs = %s, want []", env.Logs)
	}
}

func TestImport_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	mustAdd(t, s, NewLog{Text: "older", Category: domain.CategoryClinicalPractice, Hours: 7, Tags: []string{"clinic"}})
	mustAdd(t, s, NewLog{Text: "newer", Category: domain.CategoryEducation, Hours: 3, Reflection: "useful session"})
	before := s.Logs()

	out, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}

	// Wipe, then import the export. The collection must come back
	// identical: same records, same order, same fields.
	if err := s.ClearAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Import(context.Background(), out); err != nil {
		t.Fatal(err)
	}

	after := s.Logs()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("round trip lost data:\nbefore = %+v\nafter  = %+v", before, after)
	}
}

func TestImport_ReplacesCollection(t *testing.T) {
	s, _ := newTestStore(t)
	mustAdd(t, s, NewLog{Text: "will be replaced", Category: domain.CategoryEducation, Hours: 1})

	payload := `{"logs":[{"id":"ext-1","text":"imported","category":"Clinical Practice","hours":2,"createdAt":1700000000000,"isVoiceGenerated":false}]}`
	if err := s.Import(context.Background(), payload); err != nil {
		t.Fatal(err)
	}

	logs := s.Logs()
	if len(logs) != 1 || logs[0].ID != "ext-1" || logs[0].Text != "imported" {
		t.Errorf("logs = %+v", logs)
	}
}

func TestImport_IgnoresOtherProperties(t *testing.T) {
	s, _ := newTestStore(t)

	// Statistics that contradict the logs array are informational only.
	payload := `{"exportDate":"2026-01-01T00:00:00Z","statistics":{"totalHours":999},"logs":[]}`
	if err := s.Import(context.Background(), payload); err != nil {
		t.Fatal(err)
	}
	if got := s.Statistics().TotalHours; got != 0 {
		t.Errorf("totalHours = %v, want 0 (derived from logs, not payload)", got)
	}
}

func TestImport_UnparseableJSON(t *testing.T) {
	s, _ := newTestStore(t)
	mustAdd(t, s, NewLog{Text: "precious", Category: domain.CategoryEducation, Hours: 1})
	before := s.Logs()

	err := s.Import(context.Background(), "not valid json")
	if !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("err = %v, want ErrInvalidImport", err)
	}

	if !reflect.DeepEqual(before, s.Logs()) {
		t.Error("collection changed after rejected import")
	}
}

func TestImport_MissingLogsProperty(t *testing.T) {
	s, _ := newTestStore(t)
	mustAdd(t, s, NewLog{Text: "precious", Category: domain.CategoryEducation, Hours: 1})

	for _, payload := range []string{
		`{}`,
		`{"exportDate":"2026-01-01T00:00:00Z"}`,
		`{"logs":null}`,
		`{"logs":"not an array"}`,
		`{"logs":{"id":"x"}}`,
		`42`,
	} {
		err := s.Import(context.Background(), payload)
		if !errors.Is(err, ErrInvalidImport) {
			t.Errorf("payload %s: err = %v, want ErrInvalidImport", payload, err)
		}
	}

	if len(s.Logs()) != 1 {
		t.Error("collection changed after rejected imports")
	}
}

func TestImport_PersistFailureRollsBack(t *testing.T) {
	s, backend := newTestStore(t)
	mustAdd(t, s, NewLog{Text: "precious", Category: domain.CategoryEducation, Hours: 1})
	before := s.Logs()

	backend.failSet = true
	err := s.Import(context.Background(), `{"logs":[]}`)
	if !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("err = %v, want ErrInvalidImport", err)
	}

	if !reflect.DeepEqual(before, s.Logs()) {
		t.Error("collection not restored after failed persist")
	}
}

func TestImport_Notifies(t *testing.T) {
	s, _ := newTestStore(t)

	var calls int
	defer s.Subscribe(func([]domain.CpdLog) { calls++ })()

	if err := s.Import(context.Background(), `{"logs":[]}`); err != nil {
		t.Fatal(err)
	}
	if calls != 2 { // replay + import
		t.Errorf("calls = %d, want 2", calls)
	}
}
