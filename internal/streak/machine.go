package streak

// State is the consistency counter for one activity stream: the user's
// overall daily sadhana, one book's reading progress, or one shloka
// challenge. Highest never drops below Current.
type State struct {
	Current int     `json:"current_streak"`
	Highest int     `json:"highest_streak"`
	LastDay *DayKey `json:"last_activity_day,omitempty"`
}

// Event is one logged activity handed to the state machine. Positive is
// the stream's own predicate for "real progress happened" (a non-zero
// sadhana entry, a positive reading delta, a shloka moved to learned).
// Day is the calendar day the activity is logged for, which may differ
// from Today when the user backfills a past date.
type Event struct {
	Day      DayKey
	Today    DayKey
	Positive bool
}

// Equal compares two states by value, including the last-activity day.
func (s State) Equal(o State) bool {
	if s.Current != o.Current || s.Highest != o.Highest {
		return false
	}
	if (s.LastDay == nil) != (o.LastDay == nil) {
		return false
	}
	return s.LastDay == nil || *s.LastDay == *o.LastDay
}

// Advance returns the streak state after applying one activity event.
//
// Pure function: the reference day travels inside the event, the machine
// never reads the clock. Non-positive events and backfilled days leave
// the state untouched, so editing yesterday's numbers can never corrupt
// a streak.
func Advance(s State, e Event) State {
	if !e.Positive {
		return s
	}
	if e.Day != e.Today {
		// Backfill updates the raw log only, never the streak.
		return s
	}

	next := s
	today := e.Today

	switch {
	case s.LastDay == nil:
		next.Current = 1
	case *s.LastDay == today:
		// Already counted today. Floor at 1 in case a sweep zeroed
		// the streak between two same-day logs.
		if next.Current == 0 {
			next.Current = 1
		}
	case s.LastDay.Next() == today:
		next.Current = s.Current + 1
	default:
		// Gap of one or more missed days: restart, the renewed day
		// itself counts.
		next.Current = 1
	}

	day := today
	next.LastDay = &day
	if next.Current > next.Highest {
		next.Highest = next.Current
	}
	return next
}

// ShouldReset reports whether a stream whose last activity was lastDay
// has lapsed as of referenceDay: nothing was logged yesterday or any
// earlier day. Streams active today or yesterday still have a chance to
// continue and are left alone.
func ShouldReset(lastDay *DayKey, current int, referenceDay DayKey) bool {
	if current <= 0 {
		return false
	}
	if lastDay == nil {
		return false
	}
	return *lastDay < referenceDay.Prev()
}
