package apt

import "errors"

var (
	// ErrMalformedFrame indicates that a byte sequence could not be decoded
	// as an APT frame: it is shorter than the 6-byte header, or its declared
	// payload length does not match the bytes actually present.
	ErrMalformedFrame = errors.New("apt: malformed frame")

	// ErrInvalidAddress indicates a destination or source address with
	// bit 7 set. That bit is reserved on the wire to flag the presence of a
	// payload and cannot be part of an address.
	ErrInvalidAddress = errors.New("apt: address byte has reserved bit 7 set")

	// ErrPayloadTooLarge indicates a payload longer than the 16-bit length
	// field can describe (65535 bytes).
	ErrPayloadTooLarge = errors.New("apt: payload exceeds 16-bit length field")
)
