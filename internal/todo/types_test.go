package todo

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestPriority_Rank(t *testing.T) {
	ranked := slices.Clone(ValidPriorities())
	slices.SortFunc(ranked, func(a, b Priority) int { return a.Rank() - b.Rank() })
	want := []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
	if !slices.Equal(ranked, want) {
		t.Errorf("expected %v, got %v", want, ranked)
	}
	if Priority("").Rank() != PriorityMedium.Rank() {
		t.Error("expected unknown priority to rank with medium")
	}
}

func TestPriority_RaiseLower(t *testing.T) {
	if got := PriorityLow.Raise(); got != PriorityMedium {
		t.Errorf("low.Raise() = %s", got)
	}
	if got := PriorityUrgent.Raise(); got != PriorityUrgent {
		t.Errorf("urgent.Raise() = %s", got)
	}
	if got := PriorityHigh.Lower(); got != PriorityMedium {
		t.Errorf("high.Lower() = %s", got)
	}
	if got := PriorityLow.Lower(); got != PriorityLow {
		t.Errorf("low.Lower() = %s", got)
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"pending":     StatusPending,
		"In_Progress": StatusInProgress,
		"inprogress":  StatusInProgress,
		"done":        StatusCompleted,
		" completed ": StatusCompleted,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil || got != want {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseStatus("archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("Buy milk"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateTitle("   "); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if err := ValidateTitle(strings.Repeat("x", MaxTitleLength+1)); !errors.Is(err, ErrTitleTooLong) {
		t.Errorf("expected ErrTitleTooLong, got %v", err)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := ParseTags("home, errands,home,, garden ")
	want := []string{"home", "errands", "garden"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if tags := NormalizeTags(nil); tags == nil || len(tags) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", tags)
	}
}
