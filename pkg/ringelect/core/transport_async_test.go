package core

import (
	"math/rand"
	"testing"

	"github.com/jabolina/go-ringelect/pkg/ringelect/types"
)

func TestAsyncTransport_DeliveryRespectsMaxDelay(t *testing.T) {
	shared := &RunState{ReceivedLeaderReports: make(map[int]struct{})}
	agents := BuildRing(2, nil, false, rand.New(rand.NewSource(1)), newTestLogger(), shared)
	byID := map[int]*Agent{agents[0].ID: agents[0], agents[1].ID: agents[1]}
	transport := NewAsyncTransport(byID, rand.New(rand.NewSource(42)), 3, newTestLogger())

	transport.Send(0, 1, types.Envelope{Kind: types.Collect, SenderID: 0})

	delivered := false
	for tick := 1; tick <= 3; tick++ {
		transport.Deliver(tick)
		if len(byID[1].Inbox) == 1 {
			delivered = true
			break
		}
	}
	if !delivered {
		t.Fatalf("message was not delivered within max_delay ticks")
	}
}

func TestAsyncTransport_OrdersByDeliverAtThenSeq(t *testing.T) {
	shared := &RunState{ReceivedLeaderReports: make(map[int]struct{})}
	agents := BuildRing(2, nil, false, rand.New(rand.NewSource(1)), newTestLogger(), shared)
	byID := map[int]*Agent{agents[0].ID: agents[0], agents[1].ID: agents[1]}
	transport := NewAsyncTransport(byID, rand.New(rand.NewSource(1)), 1, newTestLogger())

	// max_delay=1 forces every message to deliver_at = currentTick+1,
	// so insertion order must be preserved by seq alone.
	transport.Send(0, 1, types.Envelope{Kind: types.Collect, SenderID: 0})
	transport.Send(0, 1, types.Envelope{Kind: types.Setup, SenderID: 0})
	transport.Send(0, 1, types.Envelope{Kind: types.Reveal, SenderID: 0})

	transport.Deliver(1)
	if len(byID[1].Inbox) != 3 {
		t.Fatalf("expected all 3 same-delay messages delivered by tick 1, got %d", len(byID[1].Inbox))
	}
	want := []types.Kind{types.Collect, types.Setup, types.Reveal}
	for i, env := range byID[1].Inbox {
		if env.Kind != want[i] {
			t.Fatalf("message %d: got kind %v, want %v", i, env.Kind, want[i])
		}
	}
}
