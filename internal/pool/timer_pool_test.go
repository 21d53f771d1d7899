package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTimer(t *testing.T) {
	timer := GetTimer(10 * time.Millisecond)
	require.NotNil(t, timer)

	select {
	case <-timer.C:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	PutTimer(timer)
}

func TestTimerReuse(t *testing.T) {
	timer := GetTimer(time.Hour)
	PutTimer(timer)

	// A pooled timer must behave like a fresh one after reuse.
	timer = GetTimer(5 * time.Millisecond)

	select {
	case <-timer.C:
	case <-time.After(time.Second):
		t.Fatal("reused timer did not fire")
	}

	PutTimer(timer)
}

func TestPutTimer_Expired(t *testing.T) {
	timer := GetTimer(time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	// Putting back an already-fired, unconsumed timer must not leave a
	// stale fire for the next user.
	PutTimer(timer)

	timer = GetTimer(time.Hour)
	select {
	case <-timer.C:
		t.Fatal("stale fire leaked into reused timer")
	case <-time.After(20 * time.Millisecond):
	}

	assert.True(t, timer.Stop())
	PutTimer(timer)
}
