package apt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// FuzzUnpack feeds arbitrary byte sequences to Unpack. Decoding must never
// panic, and any frame that decodes successfully must re-encode to the
// exact input bytes.
func FuzzUnpack(f *testing.F) {
	f.Add([]byte{0x23, 0x02, 0x00, 0x00, 0x50, 0x01})                   // MOD_IDENTIFY
	f.Add([]byte{0x81, 0x04, 0x02, 0x00, 0xD0, 0x01, 0x11, 0x22})       // 2-byte payload
	f.Add([]byte{0x06, 0x00, 0x00, 0x00, 0x81, 0x50})                   // zero-length payload
	f.Add([]byte{})                                                     // empty
	f.Add([]byte{0x23, 0x02, 0x00})                                     // truncated header
	f.Add([]byte{0x81, 0x04, 0xFF, 0xFF, 0xD0, 0x01, 0x00, 0x00, 0x00}) // length lies

	f.Fuzz(func(t *testing.T, frame []byte) {
		p, err := Unpack(frame)
		if err != nil {
			return
		}

		require.True(t, bytes.Equal(frame, p.Pack()),
			"re-encoding a decoded frame must reproduce the input")
	})
}
