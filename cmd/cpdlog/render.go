package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cpdlog/cpdlog/internal/domain"
)

// shortID returns the first 8 characters of an id for display.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

func formatDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}

func categoryList() string {
	cats := domain.Categories()
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

// parseDateRange turns YYYY-MM-DD bounds into an inclusive millisecond
// range. An empty from means the beginning of time; an empty to means
// the end of the to-day is now-unbounded.
func parseDateRange(from, to string) (int64, int64, error) {
	start := int64(0)
	end := int64(1<<63 - 1)

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return 0, 0, fmt.Errorf("bad --from date %q: %w", from, err)
		}
		start = t.UnixMilli()
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return 0, 0, fmt.Errorf("bad --to date %q: %w", to, err)
		}
		// Inclusive through the last millisecond of the day.
		end = t.Add(24*time.Hour).UnixMilli() - 1
	}
	if start > end {
		return 0, 0, fmt.Errorf("--from %s is after --to %s", from, to)
	}
	return start, end, nil
}

func printLogTable(w io.Writer, logs []domain.CpdLog) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tHOURS\tCATEGORY\tACTIVITY")
	for _, l := range logs {
		marker := ""
		if l.IsVoiceGenerated {
			marker = " ♪"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%s\n",
			shortID(l.ID), formatDate(l.CreatedAt), formatHours(l.Hours),
			l.Category, truncate(l.Text, 50), marker)
	}
	tw.Flush()
}

func printLogDetail(w io.Writer, l domain.CpdLog) {
	fmt.Fprintf(w, "ID:        %s\n", l.ID)
	fmt.Fprintf(w, "Date:      %s\n", formatDate(l.CreatedAt))
	fmt.Fprintf(w, "Category:  %s\n", l.Category)
	fmt.Fprintf(w, "Hours:     %s\n", formatHours(l.Hours))
	fmt.Fprintf(w, "Activity:  %s\n", l.Text)
	if l.UpdatedAt != nil {
		fmt.Fprintf(w, "Updated:   %s\n", formatDate(*l.UpdatedAt))
	}
	if len(l.Tags) > 0 {
		fmt.Fprintf(w, "Tags:      %s\n", strings.Join(l.Tags, ", "))
	}
	if l.Reflection != "" {
		fmt.Fprintf(w, "Reflection:\n  %s\n", l.Reflection)
	}
	if l.IsVoiceGenerated {
		fmt.Fprintln(w, "Source:    voice")
	}
}

func printStats(w io.Writer, stats domain.Statistics) {
	fmt.Fprintf(w, "Progress:   %.1f%% (%s of %s)\n",
		stats.ProgressPercentage, formatHours(stats.TotalHours), formatHours(stats.TargetHours))
	fmt.Fprintf(w, "Remaining:  %s\n", formatHours(stats.RemainingHours))
	fmt.Fprintf(w, "Activities: %d", stats.TotalActivities)
	if stats.VoiceGeneratedCount > 0 {
		fmt.Fprintf(w, " (%d by voice)", stats.VoiceGeneratedCount)
	}
	fmt.Fprintln(w)

	if len(stats.CategoryBreakdown) == 0 {
		return
	}
	fmt.Fprintln(w, "\nBy category:")
	cats := make([]string, 0, len(stats.CategoryBreakdown))
	for c := range stats.CategoryBreakdown {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range cats {
		fmt.Fprintf(tw, "  %s\t%s\n", c, formatHours(stats.CategoryBreakdown[domain.Category(c)]))
	}
	tw.Flush()
}

func printCounters(w io.Writer, counters map[string]int64) {
	fmt.Fprintln(w, "\nStorage operations:")
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%d\n", name, counters[name])
	}
	tw.Flush()
}
