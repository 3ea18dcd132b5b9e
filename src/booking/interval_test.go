package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewInterval(t *testing.T) {
	iv, err := NewInterval(date(2024, 1, 1), date(2024, 1, 5))
	assert.NoError(t, err)
	assert.Equal(t, date(2024, 1, 1), iv.Start)
	assert.Equal(t, date(2024, 1, 5), iv.End)
}

func TestNewIntervalDropsTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	iv, err := NewInterval(start, end)
	assert.NoError(t, err)
	assert.Equal(t, date(2024, 1, 1), iv.Start)
	assert.Equal(t, date(2024, 1, 2), iv.End)
}

func TestNewIntervalRejectsEmptyAndReversed(t *testing.T) {
	_, err := NewInterval(date(2024, 1, 5), date(2024, 1, 5))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewInterval(date(2024, 1, 6), date(2024, 1, 5))
	assert.ErrorIs(t, err, ErrInvalidRange)

	// same calendar day after truncation is still empty
	_, err = NewInterval(
		time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC),
	)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{Start: date(2024, 1, 10), End: date(2024, 1, 20)}

	cases := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", Interval{Start: date(2024, 1, 10), End: date(2024, 1, 20)}, true},
		{"partial overlap right", Interval{Start: date(2024, 1, 15), End: date(2024, 1, 25)}, true},
		{"partial overlap left", Interval{Start: date(2024, 1, 5), End: date(2024, 1, 12)}, true},
		{"contained", Interval{Start: date(2024, 1, 12), End: date(2024, 1, 15)}, true},
		{"containing", Interval{Start: date(2024, 1, 1), End: date(2024, 1, 31)}, true},
		{"adjacent after", Interval{Start: date(2024, 1, 20), End: date(2024, 1, 25)}, false},
		{"adjacent before", Interval{Start: date(2024, 1, 5), End: date(2024, 1, 10)}, false},
		{"disjoint", Interval{Start: date(2024, 2, 1), End: date(2024, 2, 5)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base))
		})
	}
}
