package session

import (
	"errors"
	"fmt"

	"github.com/optomech/go-apt/apt"
)

var (
	// ErrProtocol is the parent of all correlation-level protocol errors.
	ErrProtocol = errors.New("session: protocol error")

	// ErrUnexpectedEOS indicates the stream ended (permanently) while a
	// response was still expected.
	ErrUnexpectedEOS = fmt.Errorf("%w: stream ended while awaiting reply", ErrProtocol)

	// ErrUnexpectedReply indicates that a one-shot read with a specific
	// expected ID decoded a packet with a different ID. The packet is
	// queued before this error is returned; it is never dropped.
	ErrUnexpectedReply = fmt.Errorf("%w: reply has unexpected message ID", ErrProtocol)

	// ErrReplyTimeout indicates the receive deadline expired before a
	// matching packet arrived. Returned errors are of type *TimeoutError
	// and unwrap to this sentinel.
	ErrReplyTimeout = errors.New("session: reply timeout")

	// ErrSessionClosed indicates the session context was cancelled while
	// an operation was in flight.
	ErrSessionClosed = errors.New("session: session closed")
)

// TimeoutError reports a receive deadline expiry. It carries the expected
// message ID and, when at least one non-matching packet arrived during the
// wait, the ID of the last one seen.
type TimeoutError struct {
	Expect   apt.MsgID
	LastSeen apt.MsgID
	Seen     bool
}

func (e *TimeoutError) Error() string {
	if e.Seen {
		return fmt.Sprintf("session: reply timeout: expected %s, last received %s",
			e.Expect, e.LastSeen)
	}

	return fmt.Sprintf("session: reply timeout: expected %s, received nothing", e.Expect)
}

// Unwrap makes errors.Is(err, ErrReplyTimeout) hold for TimeoutError.
func (e *TimeoutError) Unwrap() error { return ErrReplyTimeout }
