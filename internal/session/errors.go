package session

import "errors"

var (
	// ErrNotReady means no batch could be formed from the eligible pool.
	ErrNotReady = errors.New("session: no eligible items to study")

	// ErrInvalidPlan wraps every plan validation failure.
	ErrInvalidPlan = errors.New("session: invalid plan")

	// ErrUnknownItem means an answer referenced an item outside the batch.
	ErrUnknownItem = errors.New("session: item not in batch")
)
