// Package transport defines the byte-channel contract the session layer
// depends on, a frame-aware channel implementation over net.Conn, and a
// registry that guarantees one open channel per physical port name.
package transport

import "errors"

var (
	// ErrChannelClosed indicates an operation on a closed channel.
	ErrChannelClosed = errors.New("transport: channel closed")

	// ErrPartialFrame indicates the link went quiet in the middle of a
	// frame: the first header byte arrived but the rest of the frame did
	// not within the inter-byte timeout. The stream position is no longer
	// trustworthy after this error.
	ErrPartialFrame = errors.New("transport: partial frame on the wire")
)

// Channel is the byte-channel capability the correlation engine calls
// into. Implementations deliver exactly one whole APT frame per ReadRaw
// call.
//
// ReadRaw result convention:
//   - (frame, nil): one complete frame.
//   - (nil, nil): no frame available right now; the caller may poll again.
//   - (nil, err) with errors.Is(err, io.EOF) or ErrChannelClosed: the
//     stream has ended permanently.
//
// A Channel is exclusively owned by one session at a time; none of the
// methods are goroutine-safe.
type Channel interface {
	// WriteRaw writes one complete frame to the link.
	WriteRaw(frame []byte) error

	// ReadRaw reads one complete frame from the link, or reports that no
	// frame is currently available. See the result convention above.
	ReadRaw() ([]byte, error)

	// Close releases the underlying link. Subsequent reads and writes fail.
	Close() error
}
