package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optomech/go-apt/apt"
)

func TestPendingQueue(t *testing.T) {
	pq := newPendingQueue()

	assert.Equal(t, 0, pq.total())
	_, ok := pq.dequeue(apt.MsgMotMoveHomed)
	assert.False(t, ok)

	a := shortPacket(t, apt.MsgMotGetStatusUpdate)
	b := shortPacket(t, apt.MsgMotGetStatusUpdate)
	c := shortPacket(t, apt.MsgMotMoveCompleted)

	pq.enqueue(a)
	pq.enqueue(b)
	pq.enqueue(c)

	assert.Equal(t, 2, pq.count(apt.MsgMotGetStatusUpdate))
	assert.Equal(t, 1, pq.count(apt.MsgMotMoveCompleted))
	assert.Equal(t, 3, pq.total())

	got, ok := pq.dequeue(apt.MsgMotGetStatusUpdate)
	require.True(t, ok)
	assert.Same(t, a, got, "FIFO per message ID")

	got, ok = pq.dequeue(apt.MsgMotGetStatusUpdate)
	require.True(t, ok)
	assert.Same(t, b, got)

	assert.Equal(t, 0, pq.count(apt.MsgMotGetStatusUpdate))
	assert.Equal(t, 1, pq.total())
}
