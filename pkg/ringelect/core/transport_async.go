package core

import (
	"container/heap"
	"math/rand"

	"github.com/jabolina/go-ringelect/pkg/ringelect/types"
)

// pendingMessage is the transport record from spec.md §3: ordered
// lexicographically by (deliver_at, seq), seq breaking ties to preserve
// send order for equal delays.
type pendingMessage struct {
	deliverAt int
	seq       int
	source    int
	dest      int
	payload   types.Envelope
}

// pendingQueue implements container/heap.Interface as a min-heap over
// pendingMessage. The priority-queue scheduler itself is spec.md's
// required domain algorithm (§4.4), not a pluggable concern -- a heap
// is the idiomatic stdlib tool for it, so it stays on container/heap
// rather than reaching for a third-party priority-queue package (see
// DESIGN.md).
type pendingQueue []*pendingMessage

func (q pendingQueue) Len() int { return len(q) }

func (q pendingQueue) Less(i, j int) bool {
	if q[i].deliverAt != q[j].deliverAt {
		return q[i].deliverAt < q[j].deliverAt
	}
	return q[i].seq < q[j].seq
}

func (q pendingQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pendingQueue) Push(x interface{}) {
	*q = append(*q, x.(*pendingMessage))
}

func (q *pendingQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// AsyncTransport is the priority-queue scheduler from spec.md §4.4: a
// single global min-heap keyed on (deliver_at, seq), with per-message
// delay drawn uniformly from [1, maxDelay].
type AsyncTransport struct {
	agents      map[int]*Agent
	queue       pendingQueue
	nextSeq     int
	currentTick int
	maxDelay    int
	rng         *rand.Rand
	logger      types.Logger
}

var _ Transport = (*AsyncTransport)(nil)

func NewAsyncTransport(agents map[int]*Agent, rng *rand.Rand, maxDelay int, logger types.Logger) *AsyncTransport {
	return &AsyncTransport{
		agents:   agents,
		maxDelay: maxDelay,
		rng:      rng,
		logger:   logger,
	}
}

func (t *AsyncTransport) Send(from, to int, env types.Envelope) {
	delay := 1 + t.rng.Intn(t.maxDelay)
	if delay < 1 {
		delay = 1
	}
	msg := &pendingMessage{
		deliverAt: t.currentTick + delay,
		seq:       t.nextSeq,
		source:    from,
		dest:      to,
		payload:   env,
	}
	t.nextSeq++
	heap.Push(&t.queue, msg)
}

func (t *AsyncTransport) Deliver(tick int) {
	t.currentTick = tick
	for t.queue.Len() > 0 && t.queue[0].deliverAt <= tick {
		item := heap.Pop(&t.queue).(*pendingMessage)
		agent, ok := t.agents[item.dest]
		if !ok {
			continue
		}
		agent.Inbox = append(agent.Inbox, item.payload)
		t.logger.Debugf("async transport: tick=%d source=%d dest=%d delivered", tick, item.source, item.dest)
	}
}
