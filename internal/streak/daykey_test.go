package streak

import (
	"testing"
	"time"
)

func TestToDayKeySameUTCDay(t *testing.T) {
	morning := time.Date(2025, 6, 15, 0, 0, 1, 0, time.UTC)
	night := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)

	if ToDayKey(morning) != ToDayKey(night) {
		t.Errorf("timestamps on the same UTC day got different keys: %v vs %v",
			ToDayKey(morning), ToDayKey(night))
	}
}

func TestToDayKeyCrossesMidnight(t *testing.T) {
	before := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)
	after := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	if ToDayKey(before).Next() != ToDayKey(after) {
		t.Errorf("expected adjacent days, got %v and %v", ToDayKey(before), ToDayKey(after))
	}
}

func TestToDayKeyNormalizesZones(t *testing.T) {
	// 23:30 in UTC+5 is 18:30 UTC the same calendar day; 03:30 in UTC+5
	// the next morning is 22:30 UTC the previous day. Both must land on
	// the UTC day, not the local one.
	ist := time.FixedZone("UTC+5", 5*60*60)
	lateLocal := time.Date(2025, 6, 16, 3, 30, 0, 0, ist)
	utcSame := time.Date(2025, 6, 15, 22, 30, 0, 0, time.UTC)

	if ToDayKey(lateLocal) != ToDayKey(utcSame) {
		t.Errorf("zone not normalized: %v vs %v", ToDayKey(lateLocal), ToDayKey(utcSame))
	}
}

func TestDayKeyRoundTrip(t *testing.T) {
	ts := time.Date(2025, 12, 31, 17, 45, 12, 0, time.UTC)
	key := ToDayKey(ts)

	want := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	if !key.Time().Equal(want) {
		t.Errorf("expected %v, got %v", want, key.Time())
	}
	if key.String() != "2025-12-31" {
		t.Errorf("expected 2025-12-31, got %s", key.String())
	}
}

func TestDayKeyArithmetic(t *testing.T) {
	d := ToDayKey(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	if d.Prev().Next() != d {
		t.Error("Prev/Next are not inverses")
	}
	if got := d.DaysBefore(d + 7); got != 7 {
		t.Errorf("expected 7 days apart, got %d", got)
	}
	if got := (d + 2).DaysBefore(d); got != -2 {
		t.Errorf("expected -2 for reversed order, got %d", got)
	}
}
