package booking

// StoredInterval pairs a committed booking id with the interval it occupies.
type StoredInterval struct {
	BookingID uint     `json:"booking_id"`
	Interval  Interval `json:"interval"`
}

// FindConflicts returns the subset of existing intervals that overlap the
// candidate. Linear scan, no I/O; fine for the handful of bookings a single
// spot carries, revisit if spots ever hold thousands of rows.
func FindConflicts(existing []StoredInterval, candidate Interval) []StoredInterval {
	var conflicts []StoredInterval
	for _, s := range existing {
		if s.Interval.Overlaps(candidate) {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts
}
