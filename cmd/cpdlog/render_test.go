package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/cpdlog/cpdlog/internal/domain"
)

func TestShortID(t *testing.T) {
	if got := shortID("abcdef123456"); got != "abcdef12" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	got := truncate("a very long activity description", 10)
	if len(got) > 10+len("…") {
		t.Errorf("truncate too long: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncate missing ellipsis: %q", got)
	}
}

func TestFormatHours(t *testing.T) {
	if got := formatHours(2); got != "2h" {
		t.Errorf("formatHours(2) = %q", got)
	}
	if got := formatHours(1.5); got != "1.5h" {
		t.Errorf("formatHours(1.5) = %q", got)
	}
}

func TestParseDateRange(t *testing.T) {
	start, end, err := parseDateRange("2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatal(err)
	}

	wantStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if start != wantStart {
		t.Errorf("start = %d, want %d", start, wantStart)
	}
	// End is inclusive through the last millisecond of the day.
	wantEnd := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC).UnixMilli() - 1
	if end != wantEnd {
		t.Errorf("end = %d, want %d", end, wantEnd)
	}
}

func TestParseDateRange_OpenBounds(t *testing.T) {
	start, end, err := parseDateRange("", "2026-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if start != 0 {
		t.Errorf("open start = %d", start)
	}
	if end <= 0 {
		t.Errorf("end = %d", end)
	}

	start, end, err = parseDateRange("2026-01-01", "")
	if err != nil {
		t.Fatal(err)
	}
	if start == 0 || end != 1<<63-1 {
		t.Errorf("open end: start = %d, end = %d", start, end)
	}
}

func TestParseDateRange_Errors(t *testing.T) {
	if _, _, err := parseDateRange("not-a-date", ""); err == nil {
		t.Error("expected error for bad from")
	}
	if _, _, err := parseDateRange("2026-02-01", "2026-01-01"); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestPrintLogTable(t *testing.T) {
	var buf bytes.Buffer
	printLogTable(&buf, []domain.CpdLog{
		{
			ID:        "abcdef123456",
			Text:      "Mentored junior nurse",
			Category:  domain.CategoryMentoring,
			Hours:     2,
			CreatedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).UnixMilli(),
		},
	})

	out := buf.String()
	for _, want := range []string{"abcdef12", "2026-03-10", "2h", "Mentored junior nurse"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, domain.Statistics{
		TotalHours:         10,
		TotalActivities:    2,
		ProgressPercentage: 28.571,
		RemainingHours:     25,
		TargetHours:        35,
		CategoryBreakdown: map[domain.Category]float64{
			domain.CategoryClinicalPractice: 7,
			domain.CategoryEducation:        3,
		},
	})

	out := buf.String()
	for _, want := range []string{"28.6%", "10h of 35h", "Remaining:  25h", "Clinical Practice", "Education & Training"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}

func TestFindLog(t *testing.T) {
	logs := []domain.CpdLog{
		{ID: "aaa111"},
		{ID: "aab222"},
		{ID: "bbb333"},
	}

	if got := findLog(logs, "bbb333"); got == nil || got.ID != "bbb333" {
		t.Errorf("exact match failed: %+v", got)
	}
	if got := findLog(logs, "bbb"); got == nil || got.ID != "bbb333" {
		t.Errorf("unique prefix failed: %+v", got)
	}
	if got := findLog(logs, "aa"); got != nil {
		t.Errorf("ambiguous prefix matched %+v", got)
	}
	if got := findLog(logs, "zzz"); got != nil {
		t.Errorf("missing id matched %+v", got)
	}
}
