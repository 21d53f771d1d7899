package session

import (
	"time"

	"github.com/optomech/go-apt/apt"
)

type timeoutMode uint8

const (
	oneShotMode timeoutMode = iota
	foreverMode
	deadlineMode
)

// Timeout selects the deadline behavior of a blocking read.
//
// The three modes mirror the transport's documented argument semantics:
//
//   - OneShot: no deadline of our own; resolve on the first read outcome,
//     whatever it decodes to. The zero Timeout value is OneShot.
//   - WaitForever: no deadline; poll until a frame matches or the stream
//     ends. Never fails with a timeout.
//   - Within(d): track elapsed wall-clock time from the start of the read
//     and fail with *TimeoutError once d has passed.
type Timeout struct {
	mode timeoutMode
	d    time.Duration
}

// OneShot returns the no-deadline, first-outcome mode.
func OneShot() Timeout {
	return Timeout{mode: oneShotMode}
}

// WaitForever returns the indefinite-wait mode.
func WaitForever() Timeout {
	return Timeout{mode: foreverMode}
}

// Within returns a deadline d from the start of the read call.
// d must be positive; a non-positive duration expires immediately.
func Within(d time.Duration) Timeout {
	return Timeout{mode: deadlineMode, d: d}
}

func (t Timeout) String() string {
	switch t.mode {
	case foreverMode:
		return "forever"
	case deadlineMode:
		return t.d.String()
	default:
		return "one-shot"
	}
}

// Expect filters blocking reads by message ID.
//
// The zero value, ExpectAny, disables filtering: the read returns the
// first packet that decodes, regardless of its ID.
type Expect struct {
	id  apt.MsgID
	set bool
}

// ExpectAny disables response filtering (one-shot/no-filter reads).
var ExpectAny = Expect{}

// ExpectID makes the read wait for a packet whose message ID equals id.
func ExpectID(id apt.MsgID) Expect {
	return Expect{id: id, set: true}
}

func (e Expect) String() string {
	if !e.set {
		return "any"
	}
	return e.id.String()
}
