package notification

import "testing"

func TestCrossedMilestone(t *testing.T) {
	cases := []struct {
		name string
		prev int
		next int
		want int
	}{
		{"first day", 0, 1, 0},
		{"reaches week", 6, 7, 7},
		{"already past week", 7, 8, 0},
		{"reaches month", 29, 30, 30},
		{"reaches mala", 107, 108, 108},
		{"jump over milestone", 5, 10, 7},
		{"reset", 30, 1, 0},
		{"far beyond", 108, 109, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CrossedMilestone(tc.prev, tc.next)
			if got != tc.want {
				t.Errorf("CrossedMilestone(%d, %d) = %d, want %d", tc.prev, tc.next, got, tc.want)
			}
		})
	}
}
