package booking

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"sbs/src/models"
)

// MemoryStore keeps bookings in process memory. Each spot gets its own shard
// with its own lock, so racing commits on one spot serialize against each
// other while commits on other spots never wait. Single-instance deployments
// and tests use it as the reference Store.
type MemoryStore struct {
	mu     sync.RWMutex // guards the shard map
	shards map[uint]*spotShard
	nextID atomic.Uint64
}

type spotShard struct {
	mu       sync.Mutex
	bookings []*models.Booking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{shards: make(map[uint]*spotShard)}
}

func (s *MemoryStore) shard(spotID uint) *spotShard {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shards[spotID]
	if !ok {
		sh = &spotShard{}
		s.shards[spotID] = sh
	}
	return sh
}

func (s *MemoryStore) IntervalsFor(ctx context.Context, spotID uint) ([]StoredInterval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sh := s.shard(spotID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return shardIntervals(sh), nil
}

func shardIntervals(sh *spotShard) []StoredInterval {
	out := make([]StoredInterval, 0, len(sh.bookings))
	for _, b := range sh.bookings {
		out = append(out, StoredInterval{
			BookingID: b.ID,
			Interval:  Interval{Start: b.StartDate, End: b.EndDate},
		})
	}
	return out
}

func (s *MemoryStore) CommitIfNonOverlapping(ctx context.Context, spotID, userID uint, iv Interval) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sh := s.shard(spotID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if conflicts := FindConflicts(shardIntervals(sh), iv); len(conflicts) > 0 {
		return nil, &ConflictError{SpotID: spotID, Conflicts: conflicts}
	}
	b := &models.Booking{
		ID:        uint(s.nextID.Add(1)),
		SpotID:    spotID,
		UserID:    userID,
		StartDate: iv.Start,
		EndDate:   iv.End,
	}
	b.CreatedAt = time.Now().UTC()
	sh.bookings = append(sh.bookings, b)
	out := *b
	return &out, nil
}

func (s *MemoryStore) Get(ctx context.Context, bookingID uint) (*models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sh := range s.shards {
		sh.mu.Lock()
		for _, b := range sh.bookings {
			if b.ID == bookingID {
				out := *b
				sh.mu.Unlock()
				return &out, nil
			}
		}
		sh.mu.Unlock()
	}
	return nil, ErrBookingNotFound
}

func (s *MemoryStore) Delete(ctx context.Context, bookingID uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sh := range s.shards {
		sh.mu.Lock()
		for i, b := range sh.bookings {
			if b.ID == bookingID {
				sh.bookings = append(sh.bookings[:i], sh.bookings[i+1:]...)
				sh.mu.Unlock()
				return nil
			}
		}
		sh.mu.Unlock()
	}
	return ErrBookingNotFound
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Booking
	for _, sh := range s.shards {
		sh.mu.Lock()
		for _, b := range sh.bookings {
			if b.UserID == userID {
				out = append(out, *b)
			}
		}
		sh.mu.Unlock()
	}
	return out, nil
}

func (s *MemoryStore) ListBySpot(ctx context.Context, spotID uint) ([]models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sh := s.shard(spotID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	out := make([]models.Booking, 0, len(sh.bookings))
	for _, b := range sh.bookings {
		out = append(out, *b)
	}
	return out, nil
}

// MemorySpots is a SpotDirectory for single-process setups and tests.
type MemorySpots struct {
	mu     sync.RWMutex
	owners map[uint]uint // spot id -> owner id
}

func NewMemorySpots() *MemorySpots {
	return &MemorySpots{owners: make(map[uint]uint)}
}

func (s *MemorySpots) Add(spotID, ownerID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[spotID] = ownerID
}

func (s *MemorySpots) Exists(ctx context.Context, spotID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.owners[spotID]
	return ok, nil
}

func (s *MemorySpots) OwnerOf(ctx context.Context, spotID uint) (uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.owners[spotID]
	if !ok {
		return 0, ErrSpotNotFound
	}
	return owner, nil
}
