package crawler

import "errors"

var (
	// ErrUnexpectedStatus is returned when a page answers with a status other than 200.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrEmptyBody is returned when a page answers 200 with an empty body.
	ErrEmptyBody = errors.New("empty response body")

	// ErrInvalidURL is returned when a candidate URL cannot be requested.
	ErrInvalidURL = errors.New("invalid page URL")
)
