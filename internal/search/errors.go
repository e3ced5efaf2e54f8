package search

import "errors"

var (
	// ErrEmptyQuery is returned when the search query is blank.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrUnexpectedStatus is returned when the search endpoint answers with
	// a status other than 200.
	ErrUnexpectedStatus = errors.New("unexpected search status code")

	// ErrBlocked is returned when the search endpoint serves a bot challenge
	// instead of results.
	ErrBlocked = errors.New("search request was blocked")
)
