package core

import (
	"errors"
	"fmt"
)

var (
	ErrBadArguments        = errors.New("arguments are not acceptable")
	ErrUpstreamUnavailable = errors.New("catalog is unavailable")
	ErrMalformedRecord     = errors.New("malformed catalog record")
	ErrInvalidDate         = errors.New("invalid date")
	ErrNotFound            = errors.New("series not found")
	ErrEmptyTimeline       = errors.New("series has no volumes")
	ErrUnorderedTrack      = errors.New("track dates are not ordered by sort order")
)

// DateError describes a catalog date that could not be normalized.
type DateError struct {
	Raw   string
	Label string
}

func (e *DateError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("invalid date %q", e.Raw)
	}
	return fmt.Sprintf("invalid date %q (%s)", e.Raw, e.Label)
}

func (e *DateError) Is(target error) bool {
	return target == ErrInvalidDate
}
