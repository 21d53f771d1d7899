// Package apt implements the Thorlabs APT packet codec.
//
// APT devices (motor controllers, piezo drivers, and related
// motion/instrument-control units) exchange fixed-format binary frames
// over a half-duplex serial link. Every frame starts with a 6-byte
// little-endian header:
//
//	byte 0-1: message ID
//	byte 2-3: two 1-byte inline parameters, or a 16-bit payload length
//	byte 4:   destination address (bit 7 set when a payload follows)
//	byte 5:   source address
//
// Bit 7 of the destination byte discriminates the two header forms: when
// set, header bytes 2-3 are a little-endian payload byte count and the
// payload immediately follows the header; when clear, bytes 2-3 carry the
// two inline parameters and the frame is exactly the header. This
// dual-use of bytes 2-3 is part of the published wire format and is
// preserved bit-exactly.
//
// A Packet is an immutable value. Build one with NewShortPacket or
// NewDataPacket for sending, or obtain one from Unpack when receiving.
// Pack and Unpack are pure transforms and exact inverses of each other.
package apt
