package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned when the query is blank.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrInvalidResultCount is returned when the requested site count is
	// outside the allowed range.
	ErrInvalidResultCount = errors.New("invalid result count")

	// ErrQuotaExceeded is returned when a run would push the daily request
	// counter over its cap. Nothing is fetched in that case.
	ErrQuotaExceeded = errors.New("daily request quota exceeded")

	// ErrSearchFailed wraps errors returned by the search provider.
	ErrSearchFailed = errors.New("site search failed")

	// ErrCounter wraps errors returned by the counter store.
	ErrCounter = errors.New("request counter unavailable")
)

// QuotaError describes a refused run. It matches ErrQuotaExceeded with errors.Is.
type QuotaError struct {
	// Used is today's counter value.
	Used int
	// Requested is the number of sites asked for.
	Requested int
	// Cap is the daily limit.
	Cap int
}

// Error implements error.
func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s: %d used today, %d requested, cap is %d",
		ErrQuotaExceeded, e.Used, e.Requested, e.Cap)
}

// Unwrap returns ErrQuotaExceeded.
func (e *QuotaError) Unwrap() error {
	return ErrQuotaExceeded
}

// Remaining returns how many sites can still be requested today.
func (e *QuotaError) Remaining() int {
	return max(e.Cap-e.Used, 0)
}
