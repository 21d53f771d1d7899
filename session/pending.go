package session

import (
	"github.com/optomech/go-apt/apt"
	"github.com/optomech/go-apt/internal/queue"
)

// pendingPrealloc is the initial capacity of each per-ID FIFO. Unsolicited
// traffic usually comes in short bursts of the same message type.
const pendingPrealloc = 4

// pendingQueue holds received packets that did not match the response a
// read was waiting for, ordered per message ID.
//
// The queue grows without bound; there is no eviction. Callers that poll
// devices emitting periodic updates should either consume those IDs via
// DequeuePending or drain the channel with unfiltered reads.
//
// pendingQueue is owned exclusively by one Session and inherits its
// single-caller discipline; it has no internal locking.
type pendingQueue struct {
	byID map[apt.MsgID]*queue.Queue[*apt.Packet]
}

func newPendingQueue() *pendingQueue {
	return &pendingQueue{byID: make(map[apt.MsgID]*queue.Queue[*apt.Packet])}
}

// enqueue appends pkt to the FIFO for its own message ID.
func (pq *pendingQueue) enqueue(pkt *apt.Packet) {
	q, ok := pq.byID[pkt.MsgID()]
	if !ok {
		q = queue.New[*apt.Packet](pendingPrealloc)
		pq.byID[pkt.MsgID()] = q
	}

	q.Enqueue(pkt)
}

// dequeue removes and returns the oldest pending packet for id.
func (pq *pendingQueue) dequeue(id apt.MsgID) (*apt.Packet, bool) {
	q, ok := pq.byID[id]
	if !ok {
		return nil, false
	}

	return q.Dequeue()
}

// count returns the number of pending packets for id.
func (pq *pendingQueue) count(id apt.MsgID) int {
	q, ok := pq.byID[id]
	if !ok {
		return 0
	}

	return q.Len()
}

// total returns the number of pending packets across all IDs.
func (pq *pendingQueue) total() int {
	n := 0
	for _, q := range pq.byID {
		n += q.Len()
	}

	return n
}
