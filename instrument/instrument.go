// Package instrument is the thin adapter device drivers sit on top of.
//
// Drivers are polymorphic over the capability set {send packet, query
// packet, read packet} — the Instrument interface — rather than over any
// concrete device type. Device is the stock implementation, binding a
// correlation session to the addressing of one APT unit and offering the
// generic module commands every unit understands. Device-family command
// vocabularies (temperature controllers, motor controllers, ...) belong
// in driver packages built on top of this one.
package instrument

import (
	"errors"
	"time"

	"github.com/optomech/go-apt/apt"
	"github.com/optomech/go-apt/logger"
	"github.com/optomech/go-apt/session"
)

// DefaultReplyTimeout is the deadline Device applies to its own
// convenience queries.
const DefaultReplyTimeout = 3 * time.Second

// Instrument is the capability set drivers program against.
type Instrument interface {
	// SendPacket sends one packet without waiting for a response.
	SendPacket(p *apt.Packet) error

	// ReadPacket blocks for the next packet per expect/timeout.
	ReadPacket(expect session.Expect, timeout session.Timeout) (*apt.Packet, error)

	// QueryPacket sends p and blocks for its response.
	QueryPacket(p *apt.Packet, expect session.Expect, timeout session.Timeout) (*apt.Packet, error)
}

// Device is an APT unit addressed over one correlation session.
//
// It implements Instrument as pass-throughs to the session and adds the
// generic module commands. Like the session it wraps, Device is not
// goroutine-safe.
type Device struct {
	sess   *session.Session
	dest   byte
	source byte
	logger logger.Logger
}

var _ Instrument = (*Device)(nil)

// DeviceOption is a functional option for configuring a Device.
type DeviceOption interface {
	apply(*Device) error
}

type deviceOptFunc func(*Device) error

func (f deviceOptFunc) apply(d *Device) error { return f(d) }

// WithAddress sets the destination address of the unit.
// Defaults to apt.AddrGenericUSB.
func WithAddress(dest byte) DeviceOption {
	return deviceOptFunc(func(d *Device) error {
		if dest&0x80 != 0 {
			return apt.ErrInvalidAddress
		}
		d.dest = dest

		return nil
	})
}

// WithSource sets the source address used on outgoing packets.
// Defaults to apt.AddrHostController.
func WithSource(source byte) DeviceOption {
	return deviceOptFunc(func(d *Device) error {
		if source&0x80 != 0 {
			return apt.ErrInvalidAddress
		}
		d.source = source

		return nil
	})
}

// WithLogger sets the logger for the device.
func WithLogger(l logger.Logger) DeviceOption {
	return deviceOptFunc(func(d *Device) error {
		if l == nil {
			return errors.New("instrument: logger must not be nil")
		}
		d.logger = l

		return nil
	})
}

// NewDevice binds sess to one APT unit.
func NewDevice(sess *session.Session, opts ...DeviceOption) (*Device, error) {
	if sess == nil {
		return nil, errors.New("instrument: session is nil")
	}

	d := &Device{
		sess:   sess,
		dest:   apt.AddrGenericUSB,
		source: apt.AddrHostController,
		logger: logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Dest returns the unit's destination address.
func (d *Device) Dest() byte { return d.dest }

// Source returns the source address used on outgoing packets.
func (d *Device) Source() byte { return d.source }

// SendPacket sends one packet without waiting for a response.
func (d *Device) SendPacket(p *apt.Packet) error {
	return d.sess.SendPacket(p)
}

// ReadPacket blocks for the next packet per expect/timeout.
func (d *Device) ReadPacket(expect session.Expect, timeout session.Timeout) (*apt.Packet, error) {
	return d.sess.ReadPacket(expect, timeout)
}

// QueryPacket sends p and blocks for its response.
func (d *Device) QueryPacket(p *apt.Packet, expect session.Expect, timeout session.Timeout) (*apt.Packet, error) {
	return d.sess.QueryPacket(p, expect, timeout)
}

// --- Generic module commands ---

// Identify asks the unit to flash its front-panel LED so an operator can
// pick it out of a rack. No response is sent.
func (d *Device) Identify() error {
	p, err := apt.NewShortPacket(apt.MsgModIdentify, 0x00, 0x00, d.dest, d.source)
	if err != nil {
		return err
	}

	return d.sess.SendPacket(p)
}

// HardwareInfo requests the unit's hardware information block (serial
// number, model, firmware version) and returns the raw GET_INFO response.
// Decoding the 84-byte block is left to driver packages.
func (d *Device) HardwareInfo() (*apt.Packet, error) {
	p, err := apt.NewShortPacket(apt.MsgHWReqInfo, 0x00, 0x00, d.dest, d.source)
	if err != nil {
		return nil, err
	}

	return d.sess.QueryPacket(p, session.ExpectID(apt.MsgHWGetInfo),
		session.Within(DefaultReplyTimeout))
}

// StartUpdateMessages asks the unit to start emitting periodic status
// update packets at the given rate. The updates arrive unsolicited; reads
// awaiting other responses park them in the session's pending queue.
func (d *Device) StartUpdateMessages(rate byte) error {
	p, err := apt.NewShortPacket(apt.MsgHWStartUpdateMsgs, rate, 0x00, d.dest, d.source)
	if err != nil {
		return err
	}

	return d.sess.SendPacket(p)
}

// StopUpdateMessages asks the unit to stop emitting periodic status
// update packets.
func (d *Device) StopUpdateMessages() error {
	p, err := apt.NewShortPacket(apt.MsgHWStopUpdateMsgs, 0x00, 0x00, d.dest, d.source)
	if err != nil {
		return err
	}

	return d.sess.SendPacket(p)
}
