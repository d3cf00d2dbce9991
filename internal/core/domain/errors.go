package domain

import "errors"

var (
	// ErrValidation covers recoverable caller mistakes: empty labels,
	// missing or duplicated candidate ids on a ballot.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means an operation referenced an unknown candidate id.
	ErrNotFound = errors.New("candidate not found")

	// ErrSchema means a store file exists but matches neither the canonical
	// nor a recognized legacy column set. Fatal; requires a manual file fix.
	ErrSchema = errors.New("unrecognized store schema")
)
