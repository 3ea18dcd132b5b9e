package booking

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fixedClock struct {
	day time.Time
}

func (c fixedClock) Today() time.Time { return c.day }

func newTestEngine(today time.Time) (*Engine, *MemorySpots, *MemoryStore) {
	spots := NewMemorySpots()
	store := NewMemoryStore()
	return NewEngine(spots, store, fixedClock{day: today}), spots, store
}

func TestCreateBooking(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 6, 1))
	spots.Add(1, 50)

	b, err := e.Create(context.Background(), 1, 7, date(2024, 7, 1), date(2024, 7, 5))
	assert.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, uint(1), b.SpotID)
	assert.Equal(t, uint(7), b.UserID)
	assert.Equal(t, date(2024, 7, 1), b.StartDate)
	assert.Equal(t, date(2024, 7, 5), b.EndDate)
	assert.False(t, b.CreatedAt.IsZero())
}

func TestCreateBookingSpotNotFound(t *testing.T) {
	e, _, _ := newTestEngine(date(2024, 6, 1))

	_, err := e.Create(context.Background(), 99, 7, date(2024, 7, 1), date(2024, 7, 5))
	assert.ErrorIs(t, err, ErrSpotNotFound)
}

func TestCreateBookingPastStart(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 6, 1))
	spots.Add(1, 50)

	_, err := e.Create(context.Background(), 1, 7, date(2024, 5, 30), date(2024, 7, 5))
	assert.ErrorIs(t, err, ErrPastStart)

	// starting today is fine
	_, err = e.Create(context.Background(), 1, 7, date(2024, 6, 1), date(2024, 6, 3))
	assert.NoError(t, err)
}

func TestCreateBookingInvalidRange(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 6, 1))
	spots.Add(1, 50)

	_, err := e.Create(context.Background(), 1, 7, date(2024, 7, 5), date(2024, 7, 5))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = e.Create(context.Background(), 1, 7, date(2024, 7, 6), date(2024, 7, 5))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCreateBookingConflictListsBlockers(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 1, 1))
	spots.Add(1, 50)

	existing, err := e.Create(context.Background(), 1, 7, date(2024, 3, 1), date(2024, 3, 10))
	assert.NoError(t, err)

	_, err = e.Create(context.Background(), 1, 8, date(2024, 3, 5), date(2024, 3, 15))
	assert.ErrorIs(t, err, ErrConflict)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, []uint{existing.ID}, conflict.ConflictIDs())
	assert.Equal(t, uint(1), conflict.SpotID)
}

func TestCreateBookingBoundaryTouchIsNotConflict(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 1, 1))
	spots.Add(1, 50)

	_, err := e.Create(context.Background(), 1, 7, date(2024, 1, 1), date(2024, 1, 5))
	assert.NoError(t, err)
	_, err = e.Create(context.Background(), 1, 8, date(2024, 1, 5), date(2024, 1, 10))
	assert.NoError(t, err)
}

func TestCreateBookingOtherSpotsUnaffected(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 1, 1))
	spots.Add(1, 50)
	spots.Add(2, 51)

	_, err := e.Create(context.Background(), 1, 7, date(2024, 3, 1), date(2024, 3, 10))
	assert.NoError(t, err)
	_, err = e.Create(context.Background(), 2, 8, date(2024, 3, 1), date(2024, 3, 10))
	assert.NoError(t, err)
}

func TestCreateBookingCancelledContext(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 1, 1))
	spots.Add(1, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Create(ctx, 1, 7, date(2024, 3, 1), date(2024, 3, 10))
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	// nothing was committed
	bookings, err := e.store.ListBySpot(context.Background(), 1)
	assert.NoError(t, err)
	assert.Empty(t, bookings)
}

// Two goroutines race for overlapping dates on the same spot. Exactly one
// must win every round.
func TestConcurrentCreateHasExactlyOneWinner(t *testing.T) {
	for i := 0; i < 100; i++ {
		e, spots, _ := newTestEngine(date(2024, 6, 1))
		spots.Add(1, 50)

		results := make([]error, 2)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, results[0] = e.Create(context.Background(), 1, 7, date(2024, 7, 1), date(2024, 7, 5))
		}()
		go func() {
			defer wg.Done()
			_, results[1] = e.Create(context.Background(), 1, 8, date(2024, 7, 3), date(2024, 7, 8))
		}()
		wg.Wait()

		wins := 0
		for _, err := range results {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, ErrConflict)
			}
		}
		assert.Equal(t, 1, wins, "iteration %d", i)
	}
}

func TestCancelBooking(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 6, 1))
	spots.Add(1, 50)

	b, err := e.Create(context.Background(), 1, 7, date(2024, 7, 1), date(2024, 7, 5))
	assert.NoError(t, err)

	assert.NoError(t, e.Cancel(context.Background(), b.ID, 7))

	_, err = e.store.Get(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// the freed dates can be booked again
	_, err = e.Create(context.Background(), 1, 8, date(2024, 7, 1), date(2024, 7, 5))
	assert.NoError(t, err)
}

func TestCancelBookingNotFound(t *testing.T) {
	e, _, _ := newTestEngine(date(2024, 6, 1))
	assert.ErrorIs(t, e.Cancel(context.Background(), 123, 7), ErrBookingNotFound)
}

func TestCancelBookingForbidden(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 6, 1))
	spots.Add(1, 50)

	b, err := e.Create(context.Background(), 1, 7, date(2024, 7, 1), date(2024, 7, 5))
	assert.NoError(t, err)

	assert.ErrorIs(t, e.Cancel(context.Background(), b.ID, 8), ErrForbidden)

	// booking is untouched
	got, err := e.store.Get(context.Background(), b.ID)
	assert.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, uint(7), got.UserID)
}

func TestCancelBookingAlreadyStarted(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 6, 1))
	spots.Add(1, 50)

	b, err := e.Create(context.Background(), 1, 7, date(2024, 7, 1), date(2024, 7, 5))
	assert.NoError(t, err)

	// on the start date
	e.clock = fixedClock{day: date(2024, 7, 1)}
	assert.ErrorIs(t, e.Cancel(context.Background(), b.ID, 7), ErrAlreadyStarted)

	// after the start date
	e.clock = fixedClock{day: date(2024, 7, 3)}
	assert.ErrorIs(t, e.Cancel(context.Background(), b.ID, 7), ErrAlreadyStarted)
}

func TestListForUser(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 6, 1))
	spots.Add(1, 50)
	spots.Add(2, 51)

	_, err := e.Create(context.Background(), 1, 7, date(2024, 7, 1), date(2024, 7, 5))
	assert.NoError(t, err)
	_, err = e.Create(context.Background(), 2, 7, date(2024, 8, 1), date(2024, 8, 5))
	assert.NoError(t, err)
	_, err = e.Create(context.Background(), 1, 8, date(2024, 7, 5), date(2024, 7, 10))
	assert.NoError(t, err)

	mine, err := e.ListForUser(context.Background(), 7)
	assert.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, b := range mine {
		assert.Equal(t, uint(7), b.UserID)
	}
}

func TestListForSpotOwnerSeesHolders(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 6, 1))
	spots.Add(1, 50)

	_, err := e.Create(context.Background(), 1, 7, date(2024, 7, 1), date(2024, 7, 5))
	assert.NoError(t, err)
	_, err = e.Create(context.Background(), 1, 8, date(2024, 7, 5), date(2024, 7, 10))
	assert.NoError(t, err)

	full, redacted, err := e.ListForSpot(context.Background(), 1, 50)
	assert.NoError(t, err)
	assert.Nil(t, redacted)
	assert.Len(t, full, 2)
	holders := []uint{full[0].UserID, full[1].UserID}
	assert.ElementsMatch(t, []uint{7, 8}, holders)
}

func TestListForSpotNonOwnerIsRedacted(t *testing.T) {
	e, spots, _ := newTestEngine(date(2024, 6, 1))
	spots.Add(1, 50)

	_, err := e.Create(context.Background(), 1, 7, date(2024, 7, 1), date(2024, 7, 5))
	assert.NoError(t, err)
	_, err = e.Create(context.Background(), 1, 8, date(2024, 7, 5), date(2024, 7, 10))
	assert.NoError(t, err)

	full, redacted, err := e.ListForSpot(context.Background(), 1, 9)
	assert.NoError(t, err)
	assert.Nil(t, full)
	assert.Len(t, redacted, 2)
	for _, r := range redacted {
		assert.Equal(t, uint(1), r.SpotID)
		assert.False(t, r.StartDate.IsZero())
		assert.False(t, r.EndDate.IsZero())
	}
}

func TestListForSpotUnknownSpot(t *testing.T) {
	e, _, _ := newTestEngine(date(2024, 6, 1))
	_, _, err := e.ListForSpot(context.Background(), 42, 7)
	assert.ErrorIs(t, err, ErrSpotNotFound)
}

// Random creates and cancels across a few spots; after every mutation no two
// committed bookings on the same spot may overlap.
func TestNoOverlapInvariantUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	e, spots, store := newTestEngine(date(2024, 6, 1))
	spotIDs := []uint{1, 2, 3}
	for _, id := range spotIDs {
		spots.Add(id, 50)
	}

	var committed []uint
	for op := 0; op < 500; op++ {
		if len(committed) > 0 && rng.Intn(4) == 0 {
			idx := rng.Intn(len(committed))
			id := committed[idx]
			if err := e.Cancel(context.Background(), id, 7); err == nil {
				committed = append(committed[:idx], committed[idx+1:]...)
			}
		} else {
			spotID := spotIDs[rng.Intn(len(spotIDs))]
			start := date(2024, 6, 1).AddDate(0, 0, rng.Intn(30))
			end := start.AddDate(0, 0, 1+rng.Intn(5))
			if b, err := e.Create(context.Background(), spotID, 7, start, end); err == nil {
				committed = append(committed, b.ID)
			}
		}
		for _, spotID := range spotIDs {
			bookings, err := store.ListBySpot(context.Background(), spotID)
			assert.NoError(t, err)
			for i := range bookings {
				for j := i + 1; j < len(bookings); j++ {
					a := Interval{Start: bookings[i].StartDate, End: bookings[i].EndDate}
					b := Interval{Start: bookings[j].StartDate, End: bookings[j].EndDate}
					if a.Overlaps(b) {
						t.Fatalf("op %d: overlapping bookings %d and %d on spot %d", op, bookings[i].ID, bookings[j].ID, spotID)
					}
				}
			}
		}
	}
}

func TestStoreUnavailableIsWrapped(t *testing.T) {
	e := NewEngine(failingSpots{}, NewMemoryStore(), fixedClock{day: date(2024, 6, 1)})
	_, err := e.Create(context.Background(), 1, 7, date(2024, 7, 1), date(2024, 7, 5))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

type failingSpots struct{}

func (failingSpots) Exists(ctx context.Context, spotID uint) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingSpots) OwnerOf(ctx context.Context, spotID uint) (uint, error) {
	return 0, errors.New("connection refused")
}
