package booking

import (
	"context"
	"errors"

	"sbs/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists bookings in Postgres. CommitIfNonOverlapping takes a
// FOR UPDATE lock on the spot row, so the conflict scan and insert run as one
// unit per spot; bookings on other spots are never blocked by it.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) IntervalsFor(ctx context.Context, spotID uint) ([]StoredInterval, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(&models.Booking{SpotID: spotID}).
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	return intervalsOf(bookings), nil
}

func intervalsOf(bookings []models.Booking) []StoredInterval {
	out := make([]StoredInterval, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, StoredInterval{
			BookingID: b.ID,
			Interval:  Interval{Start: DateOf(b.StartDate), End: DateOf(b.EndDate)},
		})
	}
	return out
}

func (s *GormStore) CommitIfNonOverlapping(ctx context.Context, spotID, userID uint, iv Interval) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var spot models.Spot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Spot{ID: spotID}).
			First(&spot).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpotNotFound
			}
			return err
		}
		var existing []models.Booking
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{SpotID: spotID}).
			Find(&existing).
			Error; err != nil {
			return err
		}
		if conflicts := FindConflicts(intervalsOf(existing), iv); len(conflicts) > 0 {
			return &ConflictError{SpotID: spotID, Conflicts: conflicts}
		}
		booking = models.Booking{
			SpotID:    spotID,
			UserID:    userID,
			StartDate: iv.Start,
			EndDate:   iv.End,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *GormStore) Get(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Where(&models.Booking{ID: bookingID}).
		First(&booking).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// Delete removes the row for good. Cancellation is a hard delete, not a
// status flip.
func (s *GormStore) Delete(ctx context.Context, bookingID uint) error {
	result := s.db.WithContext(ctx).
		Unscoped().
		Delete(&models.Booking{}, bookingID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (s *GormStore) ListByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(&models.Booking{UserID: userID}).
		Order("start_date asc").
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *GormStore) ListBySpot(ctx context.Context, spotID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(&models.Booking{SpotID: spotID}).
		Order("start_date asc").
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// GormSpots is the SpotDirectory backed by the spots table.
type GormSpots struct {
	db *gorm.DB
}

func NewGormSpots(db *gorm.DB) *GormSpots {
	return &GormSpots{db: db}
}

func (s *GormSpots) Exists(ctx context.Context, spotID uint) (bool, error) {
	var spot models.Spot
	err := s.db.WithContext(ctx).
		Select("id").
		Where(&models.Spot{ID: spotID}).
		First(&spot).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *GormSpots) OwnerOf(ctx context.Context, spotID uint) (uint, error) {
	var spot models.Spot
	err := s.db.WithContext(ctx).
		Select("id", "owner_id").
		Where(&models.Spot{ID: spotID}).
		First(&spot).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSpotNotFound
		}
		return 0, err
	}
	return spot.OwnerID, nil
}
