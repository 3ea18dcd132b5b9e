package booking

import (
	"context"
	"time"

	"sbs/src/models"
)

// SpotDirectory answers existence and ownership questions about spots. The
// engine never owns spot data; it only needs these two lookups.
type SpotDirectory interface {
	Exists(ctx context.Context, spotID uint) (bool, error)
	OwnerOf(ctx context.Context, spotID uint) (uint, error)
}

// Store is the durable home of committed bookings. CommitIfNonOverlapping is
// the atomic primitive: it must re-check non-overlap and insert as one unit
// scoped to the spot, so two racing commits on the same spot can never both
// succeed, while commits on different spots proceed independently.
type Store interface {
	IntervalsFor(ctx context.Context, spotID uint) ([]StoredInterval, error)
	CommitIfNonOverlapping(ctx context.Context, spotID, userID uint, iv Interval) (*models.Booking, error)
	Get(ctx context.Context, bookingID uint) (*models.Booking, error)
	Delete(ctx context.Context, bookingID uint) error
	ListByUser(ctx context.Context, userID uint) ([]models.Booking, error)
	ListBySpot(ctx context.Context, spotID uint) ([]models.Booking, error)
}

// Clock supplies the calendar date for temporal policy checks. Injected so
// tests never depend on the machine clock.
type Clock interface {
	Today() time.Time
}

type SystemClock struct{}

func (SystemClock) Today() time.Time {
	return DateOf(time.Now().UTC())
}
