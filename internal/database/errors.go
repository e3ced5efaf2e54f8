package database

import "errors"

var (
	// ErrNegativeIncrement is returned when IncrementCounter gets n < 0.
	ErrNegativeIncrement = errors.New("counter increment must not be negative")

	// ErrAmbiguousRunID is returned when a run ID prefix matches several runs.
	ErrAmbiguousRunID = errors.New("run ID prefix matches more than one run")
)
