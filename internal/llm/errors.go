package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTimeout means the per-call deadline elapsed before the backend
	// finished responding. Distinguishable so the gateway can answer 504.
	ErrTimeout = errors.New("backend timed out")

	// ErrUnreachable means the backend could not be reached at the
	// network level (connection refused, DNS failure).
	ErrUnreachable = errors.New("backend unreachable")
)

// BackendError is a non-success status reported by the backend itself.
type BackendError struct {
	Status  int
	Excerpt string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Excerpt)
}

// excerptLimit caps how much of an error body is kept for diagnostics.
const excerptLimit = 512

func truncate(s string) string {
	if len(s) > excerptLimit {
		return s[:excerptLimit]
	}
	return s
}

// classifyTransport maps a transport-level failure onto the error taxonomy.
// A deadline that fired mid-call is a timeout, everything else means the
// backend could not be reached.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
