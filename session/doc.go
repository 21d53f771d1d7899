// Package session implements the request/response correlation engine for
// APT packet exchanges over a half-duplex byte channel.
//
// A Session binds exactly one [transport.Channel] to one pending-packet
// queue. SendPacket serializes and writes a packet; ReadPacket pulls
// frames off the channel until one matches the expected message ID,
// parking every non-matching packet in the pending queue so unsolicited
// traffic (status updates, move-completed notifications) is never lost;
// QueryPacket is send-then-read and nothing more.
//
// The protocol allows a single outstanding request per channel, so a
// Session is deliberately not goroutine-safe: run one session per device
// and serialize callers externally. Cancellation inside a blocking read
// happens through the Timeout argument or the session context.
package session
