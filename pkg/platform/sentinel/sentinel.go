package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: persisted version advanced since the entity was loaded
// - ErrAlreadyUsed: a natural unique key (national id) is already taken
// - ErrIDTaken: a generated identifier collides with a stored one
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAlreadyUsed = errors.New("already used")
	ErrIDTaken     = errors.New("identifier taken")
	ErrUnavailable = errors.New("unavailable")
)
