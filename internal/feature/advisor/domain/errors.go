// Package domain defines domain-level errors for the advisor feature.
package domain

import "errors"

var (
	// ErrTraceNotFound indicates that no persisted trace matched the given criteria.
	ErrTraceNotFound = errors.New("trace not found")

	// ErrDuplicateRun indicates an attempt to persist a second trace for the same run id.
	// Traces are an append-only audit record and must never be overwritten.
	ErrDuplicateRun = errors.New("trace already persisted for this run id")
)
