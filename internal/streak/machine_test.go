package streak

import (
	"testing"
	"time"
)

func day(n int64) DayKey { return DayKey(n) }

func dayPtr(n int64) *DayKey {
	d := DayKey(n)
	return &d
}

func TestAdvanceFirstEverActivity(t *testing.T) {
	got := Advance(State{}, Event{Day: day(100), Today: day(100), Positive: true})

	if got.Current != 1 {
		t.Errorf("expected current streak 1, got %d", got.Current)
	}
	if got.Highest != 1 {
		t.Errorf("expected highest streak 1, got %d", got.Highest)
	}
	if got.LastDay == nil || *got.LastDay != day(100) {
		t.Errorf("expected last day %v, got %v", day(100), got.LastDay)
	}
}

func TestAdvanceConsecutiveDayIncrements(t *testing.T) {
	s := State{Current: 3, Highest: 3, LastDay: dayPtr(5)}
	got := Advance(s, Event{Day: day(6), Today: day(6), Positive: true})

	if got.Current != 4 {
		t.Errorf("expected current streak 4, got %d", got.Current)
	}
	if got.Highest != 4 {
		t.Errorf("expected highest streak 4, got %d", got.Highest)
	}
}

func TestAdvanceSameDayIdempotent(t *testing.T) {
	s := State{Current: 3, Highest: 3, LastDay: dayPtr(5)}
	e := Event{Day: day(6), Today: day(6), Positive: true}

	first := Advance(s, e)
	second := Advance(first, e)

	if second.Current != first.Current {
		t.Errorf("second same-day event changed streak: %d -> %d", first.Current, second.Current)
	}
	if second.Highest != first.Highest {
		t.Errorf("second same-day event changed highest: %d -> %d", first.Highest, second.Highest)
	}
}

func TestAdvanceSameDayFloorsZeroAtOne(t *testing.T) {
	// A sweep can zero the streak between two same-day logs.
	s := State{Current: 0, Highest: 7, LastDay: dayPtr(6)}
	got := Advance(s, Event{Day: day(6), Today: day(6), Positive: true})

	if got.Current != 1 {
		t.Errorf("expected floor to 1, got %d", got.Current)
	}
	if got.Highest != 7 {
		t.Errorf("highest should be preserved, got %d", got.Highest)
	}
}

func TestAdvanceGapResetsToOne(t *testing.T) {
	s := State{Current: 5, Highest: 5, LastDay: dayPtr(5)}
	got := Advance(s, Event{Day: day(8), Today: day(8), Positive: true})

	if got.Current != 1 {
		t.Errorf("expected restart at 1 after gap, got %d", got.Current)
	}
	if got.Highest != 5 {
		t.Errorf("highest should survive the gap, got %d", got.Highest)
	}
	if got.LastDay == nil || *got.LastDay != day(8) {
		t.Errorf("expected last day %v, got %v", day(8), got.LastDay)
	}
}

func TestAdvanceNonPositiveIsNoOp(t *testing.T) {
	s := State{Current: 5, Highest: 9, LastDay: dayPtr(5)}
	got := Advance(s, Event{Day: day(6), Today: day(6), Positive: false})

	if got != s {
		t.Errorf("non-positive event mutated state: %+v -> %+v", s, got)
	}
}

func TestAdvanceBackfillDoesNotTouchStreak(t *testing.T) {
	s := State{Current: 4, Highest: 4, LastDay: dayPtr(10)}
	// Logging for three days ago while today is day 10.
	got := Advance(s, Event{Day: day(7), Today: day(10), Positive: true})

	if got != s {
		t.Errorf("backfilled event mutated state: %+v -> %+v", s, got)
	}
}

func TestAdvanceInvariantHighestAtLeastCurrent(t *testing.T) {
	s := State{}
	today := day(200)
	for i := 0; i < 30; i++ {
		// Mix of consecutive days, same-day repeats and gaps.
		switch i % 4 {
		case 0, 1:
			today = today.Next()
		case 2:
			// repeat the same day
		case 3:
			today = today + 3
		}
		s = Advance(s, Event{Day: today, Today: today, Positive: true})
		if s.Current < 0 || s.Highest < s.Current {
			t.Fatalf("invariant violated at step %d: %+v", i, s)
		}
	}
}

func TestShouldReset(t *testing.T) {
	ref := day(10)

	tests := []struct {
		name    string
		lastDay *DayKey
		current int
		want    bool
	}{
		{"active today", dayPtr(10), 4, false},
		{"active yesterday", dayPtr(9), 4, false},
		{"lapsed two days ago", dayPtr(8), 4, true},
		{"lapsed long ago", dayPtr(1), 1, true},
		{"already zero", dayPtr(1), 0, false},
		{"never active", nil, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldReset(tt.lastDay, tt.current, ref); got != tt.want {
				t.Errorf("ShouldReset(%v, %d, %v) = %v, want %v", tt.lastDay, tt.current, ref, got, tt.want)
			}
		})
	}
}

func TestSweepThenLogConverges(t *testing.T) {
	// A sweep zeroing the streak right before the day's first log must
	// still yield current=1, not 0.
	today := ToDayKey(time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC))
	lapsed := today - 3

	s := State{Current: 6, Highest: 6, LastDay: &lapsed}
	if !ShouldReset(s.LastDay, s.Current, today) {
		t.Fatal("expected lapsed stream to be reset")
	}
	s.Current = 0

	got := Advance(s, Event{Day: today, Today: today, Positive: true})
	if got.Current != 1 {
		t.Errorf("expected current streak 1 after reset+log, got %d", got.Current)
	}
	if got.Highest != 6 {
		t.Errorf("highest should be preserved, got %d", got.Highest)
	}
}
