package core

import "github.com/jabolina/go-ringelect/pkg/ringelect/types"

// Transport is the communication primitive an Agent sends through. The
// two implementations -- double-buffer (sync) and priority-queue
// (async) -- live in transport_sync.go and transport_async.go.
type Transport interface {
	// Send enqueues a message from one agent to another, to be
	// delivered at a future Deliver call.
	Send(from, to int, env types.Envelope)

	// Deliver moves every message whose delivery condition is met by
	// the given tick into its destination's inbox. Called once per
	// tick, before any agent processes its inbox.
	Deliver(tick int)
}
