package booking

import "time"

// Interval is a half-open [Start, End) range over whole calendar dates.
// End is the checkout day: an interval ending where another starts does not
// overlap it.
type Interval struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// DateOf drops the time-of-day component, keeping the calendar date in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func NewInterval(start, end time.Time) (Interval, error) {
	iv := Interval{Start: DateOf(start), End: DateOf(end)}
	if !iv.Start.Before(iv.End) {
		return Interval{}, ErrInvalidRange
	}
	return iv, nil
}

// Overlaps reports whether the two intervals share at least one day.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}
