package apt

import (
	"encoding/binary"
	"fmt"
)

// HeaderPayloadLen returns the number of payload bytes that follow the
// given 6-byte header on the wire: zero for the header-only form, the
// declared 16-bit length for the payload form. header must hold at least
// HeaderSize bytes.
//
// Frame-level readers use this to know how many more bytes to pull off
// the link after the fixed header.
func HeaderPayloadLen(header []byte) int {
	if header[4]&dataFlag == 0 {
		return 0
	}
	return int(binary.LittleEndian.Uint16(header[2:4]))
}

// Unpack decodes one wire frame into a Packet.
//
// The frame must be complete: exactly the 6-byte header for the
// header-only form, or the header plus exactly the declared number of
// payload bytes for the payload form. Anything else fails wrapping
// ErrMalformedFrame.
//
// Unpack is the exact inverse of [Packet.Pack].
func Unpack(frame []byte) (*Packet, error) {
	if len(frame) < HeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes, want at least %d",
			ErrMalformedFrame, len(frame), HeaderSize)
	}

	id := MsgID(binary.LittleEndian.Uint16(frame[0:2]))
	source := frame[5]

	if frame[4]&dataFlag == 0 {
		// Header-only form. Trailing bytes would mean the caller handed us
		// more than one frame; reject rather than silently drop them.
		if len(frame) != HeaderSize {
			return nil, fmt.Errorf("%w: %d trailing bytes after header-only frame",
				ErrMalformedFrame, len(frame)-HeaderSize)
		}

		return &Packet{
			msgID:  id,
			param1: frame[2],
			param2: frame[3],
			dest:   frame[4],
			source: source,
		}, nil
	}

	// Payload form: header bytes 2-3 are the payload length.
	declared := int(binary.LittleEndian.Uint16(frame[2:4]))
	if got := len(frame) - HeaderSize; got != declared {
		return nil, fmt.Errorf("%w: declared payload length %d, got %d bytes",
			ErrMalformedFrame, declared, got)
	}

	data := make([]byte, declared)
	copy(data, frame[HeaderSize:])

	return &Packet{
		msgID:  id,
		dest:   frame[4] &^ dataFlag,
		source: source,
		data:   data,
		isData: true,
	}, nil
}
