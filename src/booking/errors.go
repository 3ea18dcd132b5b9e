package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrSpotNotFound     = errors.New("spot not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrForbidden        = errors.New("not allowed to modify this booking")
	ErrInvalidRange     = errors.New("start date must be before end date")
	ErrPastStart        = errors.New("start date is in the past")
	ErrAlreadyStarted   = errors.New("booking has already started")
	ErrConflict         = errors.New("dates conflict with an existing booking")
	ErrStoreUnavailable = errors.New("booking store unavailable")
)

// ConflictError reports which committed bookings block a candidate interval.
// It matches ErrConflict under errors.Is.
type ConflictError struct {
	SpotID    uint
	Conflicts []StoredInterval
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, strconv.FormatUint(uint64(c.BookingID), 10))
	}
	return fmt.Sprintf("spot [%d] is already booked by [%s]", e.SpotID, strings.Join(ids, ","))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ConflictIDs lists the blocking booking ids for diagnostics.
func (e *ConflictError) ConflictIDs() []uint {
	ids := make([]uint, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, c.BookingID)
	}
	return ids
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %s", ErrStoreUnavailable, err.Error())
}

// wrapStore keeps the engine's own errors intact and folds everything else
// (driver failures, timeouts, cancelled contexts) into ErrStoreUnavailable.
func wrapStore(err error) error {
	switch {
	case errors.Is(err, ErrSpotNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrConflict):
		return err
	}
	return storeErr(err)
}
