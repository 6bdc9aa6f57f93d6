package settlement

import "errors"

var (
	// ErrNotFound means the referenced transaction/reward/withdrawal does
	// not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidOutcome means the caller sent an outcome value outside the
	// allowed set.
	ErrInvalidOutcome = errors.New("invalid outcome")
)

// Decision is the result of a settle operation. Idempotent is true when the
// row had already reached a terminal state before this call; Status then
// echoes that existing state and no side effects were applied.
type Decision struct {
	Status     string `json:"status"`
	Idempotent bool   `json:"idempotent"`
}
