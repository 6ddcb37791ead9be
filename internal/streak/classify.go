package streak

// Level buckets one day's logged value against the user's goal for that
// metric. It drives calendar cell and dashboard bar coloring and is
// recomputed from raw values on every read, so changing a goal
// reclassifies history.
type Level string

const (
	LevelNone     Level = "none"
	LevelBelow    Level = "below"
	LevelMet      Level = "met"
	LevelExceeded Level = "exceeded"
)

// Classify buckets value against goal. An unset goal (0) treats any
// activity as meeting it.
func Classify(value, goal int) Level {
	if value <= 0 {
		return LevelNone
	}
	if goal <= 0 {
		return LevelMet
	}
	switch {
	case value < goal:
		return LevelBelow
	case value == goal:
		return LevelMet
	default:
		return LevelExceeded
	}
}

// AartiCount folds the four daily aarti flags into the value Classify
// expects. The aartis goal is bounded to [0,4] at the settings layer.
func AartiCount(mangal, darshan, bhoga, gaura bool) int {
	count := 0
	for _, attended := range []bool{mangal, darshan, bhoga, gaura} {
		if attended {
			count++
		}
	}
	return count
}
