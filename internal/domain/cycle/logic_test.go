package cycle

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateDateRange(t *testing.T) {
	if err := ValidateDateRange(date(2026, 1, 1), date(2026, 3, 31)); err != nil {
		t.Fatalf("expected valid range, got %v", err)
	}
	if err := ValidateDateRange(date(2026, 3, 31), date(2026, 1, 1)); err != ErrInvalidDateRange {
		t.Fatalf("expected ErrInvalidDateRange for reversed range, got %v", err)
	}
	if err := ValidateDateRange(date(2026, 1, 1), date(2026, 1, 1)); err != ErrInvalidDateRange {
		t.Fatalf("expected ErrInvalidDateRange for zero-length range, got %v", err)
	}
	if err := ValidateDateRange(time.Time{}, date(2026, 1, 1)); err != ErrInvalidDateRange {
		t.Fatalf("expected ErrInvalidDateRange for zero start, got %v", err)
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"disjoint before", date(2026, 1, 1), date(2026, 3, 31), date(2026, 4, 1), date(2026, 6, 30), false},
		{"disjoint after", date(2026, 4, 1), date(2026, 6, 30), date(2026, 1, 1), date(2026, 3, 31), false},
		{"partial overlap", date(2026, 1, 1), date(2026, 3, 31), date(2026, 3, 1), date(2026, 5, 31), true},
		{"contained", date(2026, 1, 1), date(2026, 12, 31), date(2026, 3, 1), date(2026, 5, 31), true},
		{"shared boundary day", date(2026, 1, 1), date(2026, 3, 31), date(2026, 3, 31), date(2026, 6, 30), true},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Fatalf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanTransitionForwardOnly(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusDraft, StatusActive},
		{StatusActive, StatusCompleted},
		{StatusCompleted, StatusArchived},
		{StatusDraft, StatusArchived},
		{StatusActive, StatusArchived},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to string }{
		{StatusActive, StatusDraft},
		{StatusCompleted, StatusActive},
		{StatusArchived, StatusCompleted},
		{StatusArchived, StatusArchived},
		{StatusDraft, StatusCompleted},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestComponents(t *testing.T) {
	if got := Components(TypeManager); len(got) != 1 || got[0] != TypeManager {
		t.Fatalf("expected single manager component, got %v", got)
	}
	components := Components(Type360)
	if len(components) != 5 {
		t.Fatalf("expected all five components for 360, got %v", components)
	}
	if !HasComponent(Type360, TypeSkipLevel) {
		t.Fatal("expected 360 to include skip-level")
	}
	if HasComponent(TypeSelf, TypePeer) {
		t.Fatal("self cycle must not include peer component")
	}
}
