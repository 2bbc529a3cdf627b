package core

import (
	"math/rand"
	"testing"

	"github.com/jabolina/go-ringelect/pkg/ringelect/types"
)

func TestSyncTransport_DeliversOneTickLater(t *testing.T) {
	shared := &RunState{ReceivedLeaderReports: make(map[int]struct{})}
	agents := BuildRing(3, nil, true, rand.New(rand.NewSource(1)), newTestLogger(), shared)
	byID := make(map[int]*Agent, len(agents))
	for _, a := range agents {
		byID[a.ID] = a
	}
	transport := NewSyncTransport(byID, newTestLogger())

	transport.Send(0, 1, types.Envelope{Kind: types.Collect, SenderID: 0})
	if len(byID[1].Inbox) != 0 {
		t.Fatalf("message must not be visible before Deliver is called")
	}

	transport.Deliver(1)
	if len(byID[1].Inbox) != 1 {
		t.Fatalf("expected 1 delivered message, got %d", len(byID[1].Inbox))
	}
}

func TestSyncTransport_BufferClearsAfterDelivery(t *testing.T) {
	shared := &RunState{ReceivedLeaderReports: make(map[int]struct{})}
	agents := BuildRing(2, nil, true, rand.New(rand.NewSource(1)), newTestLogger(), shared)
	byID := map[int]*Agent{agents[0].ID: agents[0], agents[1].ID: agents[1]}
	transport := NewSyncTransport(byID, newTestLogger())

	transport.Send(0, 1, types.Envelope{Kind: types.Collect, SenderID: 0})
	transport.Deliver(1)
	byID[1].Inbox = nil
	transport.Deliver(2)
	if len(byID[1].Inbox) != 0 {
		t.Fatalf("expected no re-delivery of an already-flushed buffer, got %d messages", len(byID[1].Inbox))
	}
}
