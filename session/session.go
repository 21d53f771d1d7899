package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/optomech/go-apt/apt"
	"github.com/optomech/go-apt/internal/pool"
	"github.com/optomech/go-apt/logger"
	"github.com/optomech/go-apt/transport"
)

// Session binds one byte channel to one pending-packet queue and runs the
// send/receive correlation for APT packet exchanges on it.
//
// A Session exclusively owns its channel for the session's lifetime. It is
// NOT goroutine-safe: the protocol allows one outstanding request per
// channel, so callers must serialize access externally (typically one
// session per device, one goroutine per session).
type Session struct {
	ctx     context.Context
	chn     transport.Channel
	pending *pendingQueue
	logger  logger.Logger
}

// New creates a Session on top of chn.
//
// ctx bounds the session's lifetime: cancelling it makes in-flight and
// subsequent blocking reads fail with ErrSessionClosed. The session takes
// exclusive ownership of chn but does not close it; the opener (usually a
// [transport.Registry]) keeps that responsibility.
func New(ctx context.Context, chn transport.Channel, opts ...Option) (*Session, error) {
	if chn == nil {
		return nil, errors.New("session: channel is nil")
	}

	cfg := &config{logger: logger.GetLogger()}
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return &Session{
		ctx:     ctx,
		chn:     chn,
		pending: newPendingQueue(),
		logger:  cfg.logger,
	}, nil
}

// SendPacket serializes p and writes it to the channel.
func (s *Session) SendPacket(p *apt.Packet) error {
	if err := s.chn.WriteRaw(p.Pack()); err != nil {
		return fmt.Errorf("session: send %s: %w", p.MsgID(), err)
	}

	s.logger.Debug("session: packet sent", "packet", p.String())

	return nil
}

// ReadPacket reads frames from the channel until one satisfies expect,
// within the deadline behavior selected by timeout.
//
// Every decoded packet whose ID does not match a set expectation is
// appended to the pending queue under its own ID before the read
// continues or fails; mismatches are never dropped.
//
// Exit conditions, each an explicit branch:
//
//   - A frame decodes and matches (or expect is ExpectAny): the packet is
//     returned.
//   - The stream has ended: (nil, nil) when expect is ExpectAny, else
//     ErrUnexpectedEOS.
//   - OneShot mode resolves on the first read outcome: the first decoded
//     packet, (nil, nil) on an empty read with ExpectAny, ErrUnexpectedEOS
//     on an empty read with an expectation, or ErrUnexpectedReply after
//     queueing a mismatch.
//   - A Within deadline expires: *TimeoutError carrying the expected ID
//     and the last non-matching ID seen.
//   - A frame fails to decode: the apt.ErrMalformedFrame error propagates
//     immediately, no retry.
//   - The session context is cancelled: ErrSessionClosed.
//
// ReadPacket never consults the pending queue for earlier arrivals of the
// expected ID; use DequeuePending for that.
func (s *Session) ReadPacket(expect Expect, timeout Timeout) (*apt.Packet, error) {
	var deadline *time.Timer
	if timeout.mode == deadlineMode {
		deadline = pool.GetTimer(timeout.d)
		defer pool.PutTimer(deadline)
	}

	var lastSeen apt.MsgID

	seenAny := false

	for {
		select {
		case <-s.ctx.Done():
			return nil, ErrSessionClosed
		default:
		}

		frame, err := s.chn.ReadRaw()
		if err != nil {
			if isEndOfStream(err) {
				return s.endOfStream(expect)
			}

			return nil, fmt.Errorf("session: read: %w", err)
		}

		if len(frame) == 0 {
			// Nothing on the wire right now.
			if timeout.mode == oneShotMode {
				return s.endOfStream(expect)
			}
			if expired(deadline) {
				return nil, &TimeoutError{Expect: expect.id, LastSeen: lastSeen, Seen: seenAny}
			}

			continue
		}

		pkt, err := apt.Unpack(frame)
		if err != nil {
			return nil, fmt.Errorf("session: read: %w", err)
		}

		if !expect.set || pkt.MsgID() == expect.id {
			return pkt, nil
		}

		// Mismatch: park it under its own ID.
		s.pending.enqueue(pkt)
		lastSeen = pkt.MsgID()
		seenAny = true

		s.logger.Debug("session: queued non-matching packet",
			"got", pkt.MsgID().String(),
			"expect", expect.id.String(),
			"pending", s.pending.total())

		if timeout.mode == oneShotMode {
			return nil, fmt.Errorf("%w: got %s, expected %s",
				ErrUnexpectedReply, pkt.MsgID(), expect.id)
		}
		if expired(deadline) {
			return nil, &TimeoutError{Expect: expect.id, LastSeen: lastSeen, Seen: true}
		}
	}
}

// QueryPacket sends p and reads its response: SendPacket followed by
// ReadPacket(expect, timeout), nothing else.
func (s *Session) QueryPacket(p *apt.Packet, expect Expect, timeout Timeout) (*apt.Packet, error) {
	if err := s.SendPacket(p); err != nil {
		return nil, err
	}

	return s.ReadPacket(expect, timeout)
}

// DequeuePending removes and returns the oldest pending packet received
// under id, or (nil, false) if none is queued.
//
// This is the caller-facing side of the pending queue: ReadPacket only
// ever appends to it. A caller that missed a response (e.g. after a
// timeout) can pick it up here if it arrived during a later read.
func (s *Session) DequeuePending(id apt.MsgID) (*apt.Packet, bool) {
	return s.pending.dequeue(id)
}

// PendingCount returns the number of pending packets queued under id.
func (s *Session) PendingCount(id apt.MsgID) int {
	return s.pending.count(id)
}

// TotalPending returns the number of pending packets across all IDs.
func (s *Session) TotalPending() int {
	return s.pending.total()
}

// endOfStream resolves a read that will see no more data: the no-packet
// sentinel when no specific reply was expected, ErrUnexpectedEOS otherwise.
func (s *Session) endOfStream(expect Expect) (*apt.Packet, error) {
	if !expect.set {
		return nil, nil //nolint:nilnil // documented no-packet sentinel
	}

	return nil, fmt.Errorf("%w: expected %s, got nothing", ErrUnexpectedEOS, expect.id)
}

// expired reports whether the pooled deadline timer has fired. A nil
// timer (no deadline) never expires.
func expired(t *time.Timer) bool {
	if t == nil {
		return false
	}

	select {
	case <-t.C:
		return true
	default:
		return false
	}
}

func isEndOfStream(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, transport.ErrChannelClosed)
}
