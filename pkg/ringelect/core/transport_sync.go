package core

import "github.com/jabolina/go-ringelect/pkg/ringelect/types"

// SyncTransport is the double-buffered synchronous transport from
// spec.md §4.3. Send appends to the current round's buffer for a
// destination; Deliver moves that buffer into the destination's inbox
// and clears it. Because Deliver always runs before any agent's Send
// calls for the same tick, a single map gives exactly the one-round
// delivery latency the spec calls for without needing two explicit
// buffers.
type SyncTransport struct {
	agents   map[int]*Agent
	buffered map[int][]types.Envelope
	logger   types.Logger
}

var _ Transport = (*SyncTransport)(nil)

func NewSyncTransport(agents map[int]*Agent, logger types.Logger) *SyncTransport {
	return &SyncTransport{
		agents:   agents,
		buffered: make(map[int][]types.Envelope),
		logger:   logger,
	}
}

func (t *SyncTransport) Send(from, to int, env types.Envelope) {
	t.buffered[to] = append(t.buffered[to], env)
}

func (t *SyncTransport) Deliver(tick int) {
	for id, agent := range t.agents {
		pending := t.buffered[id]
		if len(pending) == 0 {
			continue
		}
		agent.Inbox = append(agent.Inbox, pending...)
		delete(t.buffered, id)
		t.logger.Debugf("sync transport: tick=%d dest=%d delivered=%d", tick, id, len(pending))
	}
}
