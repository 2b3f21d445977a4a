package okapi

import (
	"context"
	"errors"
	"net"
)

// ErrTimeout is the sentinel for backend calls that exceeded their
// deadline, checked with errors.Is via IsTimeout.
var ErrTimeout = errors.New("backend request timed out")

// IsTimeout reports whether err is a timeout-classified failure. The
// orchestrator maps these to a distinct caller-visible outcome, never to
// a generic server error or an authentication failure.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
