package apt

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size of the APT frame header in bytes.
const HeaderSize = 6

// MaxPayloadSize is the largest payload the 16-bit length field can declare.
const MaxPayloadSize = 0xFFFF

// dataFlag is bit 7 of the destination byte. On the wire it marks a frame
// whose header bytes 2-3 are a payload length rather than inline parameters.
const dataFlag = 0x80

// Well-known APT bus addresses.
const (
	// AddrHostController is the host PC.
	AddrHostController byte = 0x01

	// AddrRackController is the rack controller / motherboard in a
	// card-slot system.
	AddrRackController byte = 0x11

	// AddrBay0 is the first bay in a card-slot system; bays 1-9 follow
	// consecutively (0x22, 0x23, ...).
	AddrBay0 byte = 0x21

	// AddrGenericUSB is a standalone USB unit.
	AddrGenericUSB byte = 0x50
)

// Packet is one APT protocol message.
//
// A Packet carries either two inline parameter bytes or a variable-length
// payload, never both; HasData reports which form it is. Packets are
// immutable once constructed: build them with NewShortPacket or
// NewDataPacket, or decode them from the wire with Unpack.
type Packet struct {
	msgID  MsgID
	param1 byte
	param2 byte
	dest   byte
	source byte
	data   []byte
	isData bool
}

// NewShortPacket creates a header-only Packet carrying two inline
// parameter bytes.
//
// dest and source must have bit 7 clear; it is reserved on the wire.
func NewShortPacket(id MsgID, param1, param2, dest, source byte) (*Packet, error) {
	if err := checkAddress(dest, source); err != nil {
		return nil, err
	}

	return &Packet{
		msgID:  id,
		param1: param1,
		param2: param2,
		dest:   dest,
		source: source,
	}, nil
}

// NewDataPacket creates a Packet carrying a variable-length payload.
//
// The payload is copied, so the caller may reuse data afterwards.
// len(data) must not exceed MaxPayloadSize. A zero-length payload is
// valid and still encodes in the long header form.
func NewDataPacket(id MsgID, dest, source byte, data []byte) (*Packet, error) {
	if err := checkAddress(dest, source); err != nil {
		return nil, err
	}

	if len(data) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	payload := make([]byte, len(data))
	copy(payload, data)

	return &Packet{
		msgID:  id,
		dest:   dest,
		source: source,
		data:   payload,
		isData: true,
	}, nil
}

func checkAddress(dest, source byte) error {
	if dest&dataFlag != 0 {
		return fmt.Errorf("%w: dest 0x%02X", ErrInvalidAddress, dest)
	}
	if source&dataFlag != 0 {
		return fmt.Errorf("%w: source 0x%02X", ErrInvalidAddress, source)
	}

	return nil
}

// MsgID returns the message identifier.
func (p *Packet) MsgID() MsgID { return p.msgID }

// Param1 returns the first inline parameter byte. It is zero for
// payload-carrying packets.
func (p *Packet) Param1() byte { return p.param1 }

// Param2 returns the second inline parameter byte. It is zero for
// payload-carrying packets.
func (p *Packet) Param2() byte { return p.param2 }

// Dest returns the destination address with the payload flag cleared.
func (p *Packet) Dest() byte { return p.dest }

// Source returns the source address.
func (p *Packet) Source() byte { return p.source }

// HasData reports whether the packet carries a variable-length payload.
func (p *Packet) HasData() bool { return p.isData }

// Data returns a copy of the payload, or nil for header-only packets.
func (p *Packet) Data() []byte {
	if !p.isData {
		return nil
	}

	out := make([]byte, len(p.data))
	copy(out, p.data)

	return out
}

// Pack serializes the packet to its wire format.
//
// Header-only form (6 bytes):
//
//	[MsgID_lo][MsgID_hi][Param1][Param2][Dest][Source]
//
// Payload form (6 + len(data) bytes):
//
//	[MsgID_lo][MsgID_hi][Len_lo][Len_hi][Dest|0x80][Source][Payload...]
func (p *Packet) Pack() []byte {
	if !p.isData {
		buf := make([]byte, HeaderSize)
		binary.LittleEndian.PutUint16(buf[0:2], uint16(p.msgID))
		buf[2] = p.param1
		buf[3] = p.param2
		buf[4] = p.dest
		buf[5] = p.source

		return buf
	}

	buf := make([]byte, HeaderSize+len(p.data))
	binary.LittleEndian.PutUint16(buf[0:2], uint16(p.msgID))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(len(p.data))) //nolint:gosec // length checked in NewDataPacket
	buf[4] = p.dest | dataFlag
	buf[5] = p.source
	copy(buf[HeaderSize:], p.data)

	return buf
}

// String renders the packet for logs: message mnemonic, addressing and
// either the inline parameters or the payload length.
func (p *Packet) String() string {
	if p.isData {
		return fmt.Sprintf("%s dest=0x%02X src=0x%02X data=%d bytes",
			p.msgID, p.dest, p.source, len(p.data))
	}

	return fmt.Sprintf("%s dest=0x%02X src=0x%02X param1=0x%02X param2=0x%02X",
		p.msgID, p.dest, p.source, p.param1, p.param2)
}
