package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/optomech/go-apt/apt"
	"github.com/optomech/go-apt/logger"
)

// Default NetChannel timeouts.
const (
	// DefaultPollTimeout bounds the wait for the first byte of a frame.
	// It trades off between CPU usage in the session's receive loop and
	// latency for outgoing traffic on the half-duplex link.
	DefaultPollTimeout = 50 * time.Millisecond

	// DefaultByteTimeout is the inter-byte timeout applied once the first
	// header byte of a frame has arrived. A frame whose remaining bytes
	// don't show up within this window is reported as ErrPartialFrame.
	DefaultByteTimeout = 500 * time.Millisecond

	// DefaultWriteTimeout bounds a single frame write.
	DefaultWriteTimeout = 3 * time.Second
)

// NetChannel reads and writes APT frames over a net.Conn, typically a
// TCP link to a serial device server or a pty bridge.
//
// ReadRaw polls for the first header byte with a short deadline so the
// session's receive loop can observe its own timeout budget between
// frames, then reads the remaining header and the declared payload with
// a per-read inter-byte deadline.
//
// NetChannel is NOT goroutine-safe, consistent with the half-duplex
// single-owner channel contract.
type NetChannel struct {
	conn   net.Conn
	reader *bufio.Reader
	logger logger.Logger

	pollTimeout  time.Duration
	byteTimeout  time.Duration
	writeTimeout time.Duration
}

var _ Channel = (*NetChannel)(nil)

// NetChannelOption is a functional option for configuring a NetChannel.
type NetChannelOption interface {
	apply(*NetChannel) error
}

type netChannelOptFunc func(*NetChannel) error

func (f netChannelOptFunc) apply(nc *NetChannel) error { return f(nc) }

// WithPollTimeout sets the deadline for the first byte of a frame.
func WithPollTimeout(d time.Duration) NetChannelOption {
	return netChannelOptFunc(func(nc *NetChannel) error {
		if d <= 0 {
			return errors.New("transport: poll timeout must be positive")
		}
		nc.pollTimeout = d

		return nil
	})
}

// WithByteTimeout sets the inter-byte deadline within a frame.
func WithByteTimeout(d time.Duration) NetChannelOption {
	return netChannelOptFunc(func(nc *NetChannel) error {
		if d <= 0 {
			return errors.New("transport: byte timeout must be positive")
		}
		nc.byteTimeout = d

		return nil
	})
}

// WithWriteTimeout sets the deadline for writing one frame.
func WithWriteTimeout(d time.Duration) NetChannelOption {
	return netChannelOptFunc(func(nc *NetChannel) error {
		if d <= 0 {
			return errors.New("transport: write timeout must be positive")
		}
		nc.writeTimeout = d

		return nil
	})
}

// WithLogger sets the logger for the channel.
func WithLogger(l logger.Logger) NetChannelOption {
	return netChannelOptFunc(func(nc *NetChannel) error {
		if l == nil {
			return errors.New("transport: logger must not be nil")
		}
		nc.logger = l

		return nil
	})
}

// NewNetChannel wraps conn as a frame-aware Channel.
//
// The channel takes ownership of conn; Close closes it.
func NewNetChannel(conn net.Conn, opts ...NetChannelOption) (*NetChannel, error) {
	nc := &NetChannel{
		conn:         conn,
		reader:       bufio.NewReader(conn),
		logger:       logger.GetLogger(),
		pollTimeout:  DefaultPollTimeout,
		byteTimeout:  DefaultByteTimeout,
		writeTimeout: DefaultWriteTimeout,
	}

	for _, opt := range opts {
		if err := opt.apply(nc); err != nil {
			return nil, err
		}
	}

	return nc, nil
}

// WriteRaw writes one complete frame to the link.
func (nc *NetChannel) WriteRaw(frame []byte) error {
	if err := nc.conn.SetWriteDeadline(time.Now().Add(nc.writeTimeout)); err != nil {
		return fmt.Errorf("transport: set write deadline: %w", err)
	}

	for written := 0; written < len(frame); {
		n, err := nc.conn.Write(frame[written:])
		written += n

		if err != nil {
			if isClosedError(err) {
				return ErrChannelClosed
			}

			return fmt.Errorf("transport: write frame: %w", err)
		}
	}

	return nil
}

// ReadRaw reads one complete frame from the link.
//
// It returns (nil, nil) when no frame starts within the poll timeout,
// (nil, io.EOF) when the stream has ended, and ErrPartialFrame when a
// frame starts but does not complete within the inter-byte timeout.
func (nc *NetChannel) ReadRaw() ([]byte, error) {
	// Phase 1: poll for the first header byte.
	if err := nc.conn.SetReadDeadline(time.Now().Add(nc.pollTimeout)); err != nil {
		return nil, fmt.Errorf("transport: set poll deadline: %w", err)
	}

	first, err := nc.reader.ReadByte()
	if err != nil {
		if isTimeoutError(err) {
			return nil, nil // nothing on the wire right now
		}
		if isClosedError(err) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("transport: read frame start: %w", err)
	}

	// Phase 2: the frame has started; read the rest of the header with the
	// inter-byte deadline.
	header := make([]byte, apt.HeaderSize)
	header[0] = first

	if err := nc.readFull(header[1:]); err != nil {
		return nil, err
	}

	// Phase 3: read the declared payload, if any.
	payloadLen := apt.HeaderPayloadLen(header)
	if payloadLen == 0 {
		return header, nil
	}

	frame := make([]byte, apt.HeaderSize+payloadLen)
	copy(frame, header)

	if err := nc.readFull(frame[apt.HeaderSize:]); err != nil {
		return nil, err
	}

	return frame, nil
}

// readFull reads exactly len(buf) bytes, resetting the inter-byte deadline
// before each read call. The deadline restarts whenever a chunk arrives,
// so slow-but-flowing links are not cut off mid-frame.
func (nc *NetChannel) readFull(buf []byte) error {
	for read := 0; read < len(buf); {
		if err := nc.conn.SetReadDeadline(time.Now().Add(nc.byteTimeout)); err != nil {
			return fmt.Errorf("transport: set byte deadline: %w", err)
		}

		n, err := nc.reader.Read(buf[read:])
		read += n

		if err != nil {
			if isTimeoutError(err) {
				nc.logger.Warn("transport: frame stalled mid-read",
					"got", read, "want", len(buf))

				return fmt.Errorf("%w: got %d of %d bytes", ErrPartialFrame, read, len(buf))
			}
			if isClosedError(err) {
				return fmt.Errorf("%w: got %d of %d bytes: %w", ErrPartialFrame, read, len(buf), io.EOF)
			}

			return fmt.Errorf("transport: read frame body: %w", err)
		}
	}

	return nil
}

// Close closes the underlying connection.
func (nc *NetChannel) Close() error {
	if err := nc.conn.Close(); err != nil && !isClosedError(err) {
		return fmt.Errorf("transport: close: %w", err)
	}

	return nil
}

func isTimeoutError(err error) bool {
	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

func isClosedError(err error) bool {
	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe)
}
