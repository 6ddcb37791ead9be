package streak

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		value int
		goal  int
		want  Level
	}{
		{0, 16, LevelNone},
		{8, 16, LevelBelow},
		{16, 16, LevelMet},
		{20, 16, LevelExceeded},
		{5, 0, LevelMet},
		{0, 0, LevelNone},
		{1, 1, LevelMet},
	}

	for _, tt := range tests {
		if got := Classify(tt.value, tt.goal); got != tt.want {
			t.Errorf("Classify(%d, %d) = %s, want %s", tt.value, tt.goal, got, tt.want)
		}
	}
}

func TestAartiCount(t *testing.T) {
	if got := AartiCount(false, false, false, false); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := AartiCount(true, false, true, false); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := AartiCount(true, true, true, true); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
}

func TestAartiClassificationBounds(t *testing.T) {
	// Aartis goal is capped at 4, so attending everything always meets it.
	if got := Classify(AartiCount(true, true, true, true), 4); got != LevelMet {
		t.Errorf("expected met, got %s", got)
	}
	if got := Classify(AartiCount(true, false, false, false), 4); got != LevelBelow {
		t.Errorf("expected below, got %s", got)
	}
}
