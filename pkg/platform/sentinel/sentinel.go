package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, clients and the key-value
// layer return these (optionally wrapped) so services can translate them into
// domain errors or soft failures.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record or key does not exist
// - ErrExpired: persisted state outlived its TTL
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
