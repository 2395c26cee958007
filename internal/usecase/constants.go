package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration of one transfer attempt,
	// lock waits included.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyProcessingMarker is the stored value of a key whose first
	// request has not finished yet.
	IdempotencyProcessingMarker = "processing"
)
