package transport

import (
	"fmt"
	"time"
)

// FloodWaitError is the distinguishable "slow down" failure mode from
// the messaging platform. The send attempt that triggered it has
// failed; callers must wait RetryAfter before any further transport
// calls.
type FloodWaitError struct {
	RetryAfter time.Duration
}

func (e *FloodWaitError) Error() string {
	return fmt.Sprintf("flood wait: retry after %s", e.RetryAfter)
}
