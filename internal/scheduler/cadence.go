package scheduler

import "time"

// Cadence describes a recurring firing schedule: weekly when Weekday is
// set, daily when only Hour is set, hourly otherwise.
type Cadence struct {
	Weekday *time.Weekday
	Hour    *int
	Minute  int
}

// Weekly fires once a week at the given weekday and time
func Weekly(weekday time.Weekday, hour, minute int) Cadence {
	return Cadence{Weekday: &weekday, Hour: &hour, Minute: minute}
}

// Daily fires once a day at the given time
func Daily(hour, minute int) Cadence {
	return Cadence{Hour: &hour, Minute: minute}
}

// Hourly fires once an hour at the given minute
func Hourly(minute int) Cadence {
	return Cadence{Minute: minute}
}

// Next returns the first firing instant strictly after the given time
func (c Cadence) Next(after time.Time) time.Time {
	hour := after.Hour()
	if c.Hour != nil {
		hour = *c.Hour
	}
	next := time.Date(after.Year(), after.Month(), after.Day(), hour, c.Minute, 0, 0, after.Location())

	switch {
	case c.Weekday != nil:
		for next.Weekday() != *c.Weekday || !next.After(after) {
			next = next.AddDate(0, 0, 1)
		}
	case c.Hour != nil:
		if !next.After(after) {
			next = next.AddDate(0, 0, 1)
		}
	default:
		if !next.After(after) {
			next = next.Add(time.Hour)
		}
	}
	return next
}
