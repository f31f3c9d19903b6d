// Package domain defines the CPD activity record and the types derived
// from it: the fixed category set, computed statistics, and the export
// envelope written by the export operation.
//
// Validation here is advisory. The stores trust their callers; the CLI
// layer decides whether to enforce Validate before mutating anything.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one label from the fixed CPD category set.
type Category string

const (
	CategoryClinicalPractice Category = "Clinical Practice"
	CategoryEducation        Category = "Education & Training"
	CategoryLeadership       Category = "Leadership & Management"
	CategoryResearch         Category = "Research & Audit"
	CategoryMentoring        Category = "Mentoring & Supervision"
	CategorySelfDirected     Category = "Self-Directed Learning"
)

// Categories returns the closed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryClinicalPractice,
		CategoryEducation,
		CategoryLeadership,
		CategoryResearch,
		CategoryMentoring,
		CategorySelfDirected,
	}
}

// ValidCategory reports whether c is a member of the fixed set.
func ValidCategory(c Category) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// CpdLog is one professional-development activity record.
//
// ID, CreatedAt and IsVoiceGenerated are assigned at creation and never
// change. UpdatedAt is nil until the first update and overwritten on each
// subsequent one. Timestamps are milliseconds since epoch, matching the
// persisted and exported JSON layout.
type CpdLog struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Category         Category `json:"category"`
	Hours            float64  `json:"hours"`
	CreatedAt        int64    `json:"createdAt"`
	UpdatedAt        *int64   `json:"updatedAt,omitempty"`
	IsVoiceGenerated bool     `json:"isVoiceGenerated"`
	Tags             []string `json:"tags,omitempty"`
	Reflection       string   `json:"reflection,omitempty"`
}

// Clone returns a deep copy of the record. Callers receiving records from
// a store own their copies outright.
func (l CpdLog) Clone() CpdLog {
	out := l
	if l.UpdatedAt != nil {
		ts := *l.UpdatedAt
		out.UpdatedAt = &ts
	}
	if l.Tags != nil {
		out.Tags = append([]string(nil), l.Tags...)
	}
	return out
}

// LogUpdate carries a partial update for an existing record. Nil fields
// are left untouched. Immutable fields have no counterpart here.
type LogUpdate struct {
	Text       *string
	Category   *Category
	Hours      *float64
	Tags       *[]string
	Reflection *string
}

// Statistics is the derived view over the full collection.
type Statistics struct {
	TotalHours          float64              `json:"totalHours"`
	TotalActivities     int                  `json:"totalActivities"`
	VoiceGeneratedCount int                  `json:"voiceGeneratedCount"`
	CategoryBreakdown   map[Category]float64 `json:"categoryBreakdown"`
	ProgressPercentage  float64              `json:"progressPercentage"`
	RemainingHours      float64              `json:"remainingHours"`
	TargetHours         float64              `json:"targetHours"`
}

// Export is the envelope produced by the export operation. On import only
// Logs is read; the other fields are informational.
type Export struct {
	ExportDate string     `json:"exportDate"`
	Statistics Statistics `json:"statistics"`
	Logs       []CpdLog   `json:"logs"`
}

// MaxHoursPerEntry bounds a single activity by validation convention.
const MaxHoursPerEntry = 24

var (
	ErrEmptyText       = errors.New("activity text must not be empty")
	ErrUnknownCategory = errors.New("unknown category")
)

// Validate checks the advisory record conventions: non-blank text, hours
// in (0, 24], category in the fixed set.
func Validate(l CpdLog) error {
	if strings.TrimSpace(l.Text) == "" {
		return ErrEmptyText
	}
	if !ValidCategory(l.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, l.Category)
	}
	if l.Hours <= 0 || l.Hours > MaxHoursPerEntry {
		return fmt.Errorf("hours must be in (0, %d], got %v", MaxHoursPerEntry, l.Hours)
	}
	return nil
}
