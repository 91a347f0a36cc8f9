package domain

import "errors"

// Errors returned by the retrieval engine and its components.
var (
	// ErrNotFound reports an operation referencing a paper id absent
	// from the store. No mutation is performed.
	ErrNotFound = errors.New("paper not found")

	// ErrInvalidChunking reports degenerate chunker parameters
	// (overlap >= chunk size would never terminate).
	ErrInvalidChunking = errors.New("chunk size must be greater than overlap")

	// ErrDimensionMismatch reports a vector whose length does not match
	// the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCorruptSnapshot reports stored artifacts that could not be
	// decoded or whose lengths disagree. Callers reset to an empty
	// state instead of serving inconsistent results.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)
