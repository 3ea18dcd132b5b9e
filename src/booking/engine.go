package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"sbs/src/models"
)

// Engine enforces the booking rules: the spot must exist, dates must not be
// in the past, and no two bookings on the same spot may overlap. It holds no
// state of its own; the Store owns all durable booking data.
type Engine struct {
	spots SpotDirectory
	store Store
	clock Clock
}

func NewEngine(spots SpotDirectory, store Store, clock Clock) *Engine {
	return &Engine{spots: spots, store: store, clock: clock}
}

// Create commits a booking for the user on the spot over [start, end).
// The pre-flight conflict scan here is only a fast fail with diagnostics;
// the store re-validates under its per-spot exclusion before committing, so
// a request that loses a race still comes back as a ConflictError.
func (e *Engine) Create(ctx context.Context, spotID, userID uint, start, end time.Time) (*models.Booking, error) {
	exists, err := e.spots.Exists(ctx, spotID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if !exists {
		return nil, ErrSpotNotFound
	}
	if DateOf(start).Before(DateOf(e.clock.Today())) {
		return nil, ErrPastStart
	}
	iv, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}
	existing, err := e.store.IntervalsFor(ctx, spotID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if conflicts := FindConflicts(existing, iv); len(conflicts) > 0 {
		return nil, &ConflictError{SpotID: spotID, Conflicts: conflicts}
	}
	b, err := e.store.CommitIfNonOverlapping(ctx, spotID, userID, iv)
	if err != nil {
		return nil, wrapStore(err)
	}
	log.Printf("Created Booking [%d] on Spot [%d] for user [%d]\n", b.ID, spotID, userID)
	return b, nil
}

// Cancel removes a booking. Only its holder may cancel, and only while the
// start date has not yet arrived.
func (e *Engine) Cancel(ctx context.Context, bookingID, userID uint) error {
	b, err := e.store.Get(ctx, bookingID)
	if err != nil {
		return wrapStore(err)
	}
	if b.UserID != userID {
		return ErrForbidden
	}
	if !DateOf(e.clock.Today()).Before(DateOf(b.StartDate)) {
		return ErrAlreadyStarted
	}
	if err := e.store.Delete(ctx, bookingID); err != nil {
		return wrapStore(err)
	}
	log.Printf("Canceled Booking [%d] for user [%d]\n", bookingID, userID)
	return nil
}

// ListForUser returns every booking the user holds, across all spots.
func (e *Engine) ListForUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	bookings, err := e.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	return bookings, nil
}

// ListForSpot returns the spot's bookings. The spot owner sees full records;
// anyone else only sees which dates are taken, never who holds them.
func (e *Engine) ListForSpot(ctx context.Context, spotID, viewerID uint) ([]models.Booking, []models.RedactedBooking, error) {
	ownerID, err := e.spots.OwnerOf(ctx, spotID)
	if err != nil {
		if errors.Is(err, ErrSpotNotFound) {
			return nil, nil, err
		}
		return nil, nil, wrapStore(err)
	}
	bookings, err := e.store.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, nil, wrapStore(err)
	}
	if viewerID == ownerID {
		return bookings, nil, nil
	}
	redacted := make([]models.RedactedBooking, 0, len(bookings))
	for _, b := range bookings {
		redacted = append(redacted, models.RedactedBooking{
			SpotID:    b.SpotID,
			StartDate: b.StartDate,
			EndDate:   b.EndDate,
		})
	}
	return nil, redacted, nil
}
