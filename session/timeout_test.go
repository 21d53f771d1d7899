package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/optomech/go-apt/apt"
)

func TestTimeout_ZeroValueIsOneShot(t *testing.T) {
	var zero Timeout
	assert.Equal(t, OneShot(), zero)
	assert.Equal(t, "one-shot", zero.String())
}

func TestTimeout_String(t *testing.T) {
	assert.Equal(t, "forever", WaitForever().String())
	assert.Equal(t, "1.5s", Within(1500*time.Millisecond).String())
}

func TestExpect_ZeroValueIsAny(t *testing.T) {
	var zero Expect
	assert.Equal(t, ExpectAny, zero)
	assert.Equal(t, "any", zero.String())
	assert.Equal(t, "MOD_IDENTIFY(0x0223)", ExpectID(apt.MsgModIdentify).String())
}
