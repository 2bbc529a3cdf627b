// Package core holds the protocol state machine and the two transport
// implementations it runs over. This mirrors the teacher's
// pkg/mcast/core split between Peer and Transport, generalized from an
// atomic-multicast peer to a ring election agent.
package core

import (
	"math/rand"

	"github.com/jabolina/go-ringelect/pkg/ringelect/types"
)

// RunState is the handful of fields shared by every agent in a run: the
// single-writer abort flag, which agent is the starter, and the set of
// agents that have confirmed the final leader back to the starter. It is
// owned by the model but referenced by every agent, the way the
// teacher's poweroff/contextHolder structs are shared cooperative
// signaling state rather than per-peer private memory.
type RunState struct {
	Aborted               bool
	StarterID             int
	ReceivedLeaderReports map[int]struct{}
}

// Agent is one ring position's local protocol state, shaped directly
// after spec.md §3.
type Agent struct {
	ID          int
	Successor   *Agent
	Predecessor *Agent

	Phase                  types.Phase
	Highest                int
	IDSet                  types.IDSet
	NRandCommit            *int
	NRandReveal            *int
	CommitRecords          map[int]int
	CommitFromPredecessor  *int
	Inbox                  []types.Envelope
	Leader                 *int
	IsMalicious            bool
	IsStarter              bool

	n         int
	drainAll  bool
	version   string
	transport Transport
	shared    *RunState
	rng       *rand.Rand
	logger    types.Logger
}

// BuildRing constructs n agents, wires successor/predecessor links into
// exactly one cycle (a self-loop when n == 1), and marks the ids in
// maliciousIDs. The transport is attached separately via AttachTransport
// once it exists, since the transport needs the agent set to route
// deliveries and the agents need the transport to send -- a mutual
// dependency resolved by two-phase construction rather than a cyclic
// import.
func BuildRing(n int, maliciousIDs map[int]bool, drainAll bool, rng *rand.Rand, logger types.Logger, shared *RunState) []*Agent {
	agents := make([]*Agent, n)
	for i := 0; i < n; i++ {
		agents[i] = &Agent{
			ID:            i,
			Phase:         types.PhaseIdle,
			Highest:       -1,
			IDSet:         types.NewIDSet(),
			CommitRecords: make(map[int]int),
			IsMalicious:   maliciousIDs[i],
			n:             n,
			drainAll:      drainAll,
			version:       types.CurrentProtocolVersion,
			shared:        shared,
			rng:           rng,
			logger:        logger,
		}
	}
	for i := 0; i < n; i++ {
		agents[i].Successor = agents[(i+1)%n]
		agents[i].Predecessor = agents[(i-1+n)%n]
	}
	return agents
}

// AttachTransport wires the transport the agent will send through. Must
// be called once, after the transport itself has been constructed from
// the same agent set.
func (a *Agent) AttachTransport(t Transport) {
	a.transport = t
}

// ProcessTick runs one tick's worth of message processing for this
// agent: the sync variant drains the whole inbox, the async variant
// consumes exactly one message, per spec.md §4.5 and §5.
func (a *Agent) ProcessTick() {
	if a.shared.Aborted {
		a.Leader = nil
		return
	}
	if a.drainAll {
		pending := a.Inbox
		a.Inbox = nil
		for _, env := range pending {
			a.process(env)
		}
		return
	}
	if len(a.Inbox) == 0 {
		return
	}
	env := a.Inbox[0]
	a.Inbox = a.Inbox[1:]
	a.process(env)
}

func (a *Agent) process(env types.Envelope) {
	if err := types.CheckVersion(a.version, env.ProtocolVersion); err != nil {
		a.logger.Warnf("agent %d dropping %s from %d: %v", a.ID, env.Kind, env.SenderID, err)
		return
	}
	switch env.Kind {
	case types.Collect:
		a.handleCollect(env)
	case types.Setup:
		a.handleSetup(env)
	case types.Commit:
		a.handleCommit(env)
	case types.Reveal:
		a.handleReveal(env)
	case types.Choose:
		a.handleChoose(env)
	default:
		a.logger.Warnf("agent %d received unknown message kind %v", a.ID, env.Kind)
	}
}

func (a *Agent) send(to int, env types.Envelope) {
	env.ProtocolVersion = a.version
	a.transport.Send(a.ID, to, env)
}
