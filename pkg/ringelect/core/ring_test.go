package core

import (
	"math/rand"
	"testing"

	"github.com/jabolina/go-ringelect/pkg/ringelect/definition"
)

func newTestLogger() *definition.DefaultLogger {
	return definition.NewDefaultLogger()
}

func TestBuildRing_FormsOneCycle(t *testing.T) {
	shared := &RunState{ReceivedLeaderReports: make(map[int]struct{})}
	agents := BuildRing(5, nil, true, rand.New(rand.NewSource(1)), newTestLogger(), shared)

	for _, a := range agents {
		if a.Successor.Predecessor != a {
			t.Fatalf("agent %d: successor.predecessor != self", a.ID)
		}
		if a.Predecessor.Successor != a {
			t.Fatalf("agent %d: predecessor.successor != self", a.ID)
		}
	}

	visited := make(map[int]bool)
	cur := agents[0]
	for i := 0; i < len(agents); i++ {
		visited[cur.ID] = true
		cur = cur.Successor
	}
	if len(visited) != len(agents) {
		t.Fatalf("following successors from agent 0 visited %d agents, want %d", len(visited), len(agents))
	}
	if cur != agents[0] {
		t.Fatalf("following successors %d times did not return to the start", len(agents))
	}
}

func TestBuildRing_SelfLoopForSingleAgent(t *testing.T) {
	shared := &RunState{ReceivedLeaderReports: make(map[int]struct{})}
	agents := BuildRing(1, nil, true, rand.New(rand.NewSource(1)), newTestLogger(), shared)
	if agents[0].Successor != agents[0] || agents[0].Predecessor != agents[0] {
		t.Fatalf("single agent ring must self-loop")
	}
}

func TestBuildRing_MarksMaliciousIDs(t *testing.T) {
	shared := &RunState{ReceivedLeaderReports: make(map[int]struct{})}
	malicious := map[int]bool{1: true, 3: true}
	agents := BuildRing(4, malicious, true, rand.New(rand.NewSource(1)), newTestLogger(), shared)
	for _, a := range agents {
		if a.IsMalicious != malicious[a.ID] {
			t.Fatalf("agent %d: IsMalicious=%v, want %v", a.ID, a.IsMalicious, malicious[a.ID])
		}
	}
}
