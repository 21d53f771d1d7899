package apt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpack_RoundTrip(t *testing.T) {
	short := func(id MsgID, p1, p2, dest, src byte) *Packet {
		p, err := NewShortPacket(id, p1, p2, dest, src)
		require.NoError(t, err)
		return p
	}
	long := func(id MsgID, dest, src byte, data []byte) *Packet {
		p, err := NewDataPacket(id, dest, src, data)
		require.NoError(t, err)
		return p
	}

	packets := []*Packet{
		short(MsgModIdentify, 0x01, 0x00, AddrGenericUSB, AddrHostController),
		short(MsgHWReqInfo, 0x00, 0x00, AddrGenericUSB, AddrHostController),
		short(MsgMotMoveHome, 0x01, 0x00, AddrBay0, AddrHostController),
		short(MsgID(0x7FFF), 0xFF, 0xFF, 0x7F, 0x7F),
		short(MsgID(0x0000), 0x00, 0x00, 0x00, 0x00),
		long(MsgMotMoveAbsolute, AddrGenericUSB, AddrHostController,
			[]byte{0x01, 0x00, 0xC0, 0x46, 0x08, 0x00}),
		long(MsgHWGetInfo, AddrHostController, AddrGenericUSB, make([]byte, 84)),
		long(MsgMotGetStatusUpdate, AddrBay0, AddrHostController, []byte{}),
	}

	for _, p := range packets {
		decoded, err := Unpack(p.Pack())
		require.NoError(t, err, "packet %s", p)
		assert.Equal(t, p, decoded, "decode(encode(P)) must equal P for %s", p)
	}
}

func TestUnpack_FrameTooShort(t *testing.T) {
	for size := 0; size < HeaderSize; size++ {
		_, err := Unpack(make([]byte, size))
		assert.ErrorIs(t, err, ErrMalformedFrame, "size=%d", size)
	}
}

func TestUnpack_PayloadLengthMismatch(t *testing.T) {
	p, err := NewDataPacket(MsgMotMoveAbsolute, AddrGenericUSB, AddrHostController,
		[]byte{1, 2, 3, 4})
	require.NoError(t, err)

	frame := p.Pack()

	// Truncated payload.
	_, err = Unpack(frame[:len(frame)-1])
	assert.ErrorIs(t, err, ErrMalformedFrame)

	// Extra payload bytes.
	_, err = Unpack(append(frame, 0x00)) //nolint:gocritic // intentional fresh slice
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestUnpack_TrailingBytesAfterShortFrame(t *testing.T) {
	p, err := NewShortPacket(MsgModIdentify, 0, 0, AddrGenericUSB, AddrHostController)
	require.NoError(t, err)

	_, err = Unpack(append(p.Pack(), 0xEE))
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestUnpack_ClearsPayloadFlagOnDest(t *testing.T) {
	// 0x0481 GET_STATUSUPDATE with a 2-byte payload, dest 0x50|0x80 on the wire.
	frame := []byte{0x81, 0x04, 0x02, 0x00, 0xD0, 0x01, 0x11, 0x22}

	p, err := Unpack(frame)
	require.NoError(t, err)

	assert.Equal(t, MsgMotGetStatusUpdate, p.MsgID())
	assert.Equal(t, AddrGenericUSB, p.Dest(), "flag bit must not leak into the address")
	assert.True(t, p.HasData())
	assert.Equal(t, []byte{0x11, 0x22}, p.Data())
}

func TestUnpack_DoesNotAliasInput(t *testing.T) {
	frame := []byte{0x81, 0x04, 0x02, 0x00, 0xD0, 0x01, 0x11, 0x22}

	p, err := Unpack(frame)
	require.NoError(t, err)

	frame[6] = 0xFF
	assert.Equal(t, []byte{0x11, 0x22}, p.Data(), "packet must own its payload")
}
