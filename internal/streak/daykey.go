package streak

import "time"

// DayKey identifies one calendar day at UTC midnight, counted as whole
// days since the Unix epoch. All streams share this single normalization
// so "same day" and "yesterday" mean the same thing everywhere.
type DayKey int64

const secondsPerDay = 24 * 60 * 60

// ToDayKey strips the time-of-day component of t in UTC.
func ToDayKey(t time.Time) DayKey {
	utc := t.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return DayKey(midnight.Unix() / secondsPerDay)
}

// Time returns the UTC midnight instant of the day, suitable for
// storing in a DATE column.
func (d DayKey) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func (d DayKey) Prev() DayKey { return d - 1 }

func (d DayKey) Next() DayKey { return d + 1 }

// DaysBefore reports how many days d falls before other. Negative when
// d is after other.
func (d DayKey) DaysBefore(other DayKey) int {
	return int(other - d)
}

func (d DayKey) String() string {
	return d.Time().Format("2006-01-02")
}
