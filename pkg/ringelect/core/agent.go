package core

import "github.com/jabolina/go-ringelect/pkg/ringelect/types"

// StartProtocol transitions the starter from idle directly into the
// COLLECT phase and sends the opening message to its successor. Called
// exactly once per run, by the model, on the chosen starter.
func (a *Agent) StartProtocol() {
	a.IsStarter = true
	a.shared.StarterID = a.ID
	a.Highest = a.ID
	a.Phase = types.PhaseCollect
	a.IDSet = types.NewIDSet(a.ID)
	a.logger.Infof("agent %d starting election", a.ID)
	a.send(a.Successor.ID, types.Envelope{
		Kind:           types.Collect,
		SenderID:       a.ID,
		CollectPayload: &types.CollectPayload{IDSet: a.IDSet.Clone()},
	})
}

// handleCollect implements the COLLECT admissibility rule: a strictly
// larger originator displaces the locally tracked one and the agent
// joins its traversal; the originator recognizing its own id set full
// hands off to SETUP; anything else is inadmissible and dropped.
func (a *Agent) handleCollect(env types.Envelope) {
	originator := env.SenderID
	p := env.CollectPayload

	if originator > a.Highest && a.Phase <= types.PhaseCollect {
		next := p.IDSet.Clone()
		next.Add(a.ID)
		a.Highest = originator
		a.IDSet = next
		a.Phase = types.PhaseCollect
		a.send(a.Successor.ID, types.Envelope{
			Kind:           types.Collect,
			SenderID:       originator,
			CollectPayload: &types.CollectPayload{IDSet: next},
		})
		return
	}

	if originator == a.ID && p.IDSet.Len() == a.n {
		a.IDSet = p.IDSet.Clone()
		a.Phase = types.PhaseSetup
		a.send(a.Successor.ID, types.Envelope{
			Kind:         types.Setup,
			SenderID:     a.ID,
			SetupPayload: &types.SetupPayload{IDSet: a.IDSet.Clone()},
		})
		return
	}
}

// handleSetup acknowledges membership, draws this agent's commitment
// the first time it sees a SETUP from the recognized originator, and
// either forwards the message on or -- if this agent is the originator
// closing the lap -- opens the REVEAL phase. The originator therefore
// never draws its own commitment here: handleCollect already moved it
// to PhaseSetup before its SETUP went out, so the phase < PhaseSetup
// gate below is false when that SETUP returns, and its N_rand_reveal
// is supplied lazily by the REVEAL append-step fallback.
func (a *Agent) handleSetup(env types.Envelope) {
	originator := env.SenderID
	if originator != a.Highest {
		return
	}
	p := env.SetupPayload

	if a.Phase < types.PhaseSetup {
		a.IDSet = p.IDSet.Clone()
		a.Phase = types.PhaseSetup
		commit := a.rng.Intn(a.n)
		a.NRandCommit = &commit

		reveal := commit
		if a.IsMalicious && a.n > 1 {
			diff := 1 + a.rng.Intn(a.n-1)
			reveal = (commit + diff) % a.n
		}
		a.NRandReveal = &reveal

		a.send(a.Successor.ID, types.Envelope{
			Kind:          types.Commit,
			SenderID:      a.ID,
			CommitPayload: &types.CommitPayload{OriginatorID: a.ID, NRand: commit},
		})
	}

	if a.ID != originator {
		a.send(a.Successor.ID, types.Envelope{
			Kind:         types.Setup,
			SenderID:     originator,
			SetupPayload: &types.SetupPayload{IDSet: p.IDSet.Clone()},
		})
		return
	}

	a.Phase = types.PhaseReveal
	a.send(a.Successor.ID, types.Envelope{
		Kind:     types.Reveal,
		SenderID: a.ID,
		RevealPayload: &types.RevealPayload{
			IDSet:      a.IDSet.Clone(),
			Pairs:      nil,
			LastAuthor: nil,
		},
	})
}

// handleCommit only accepts a message arriving from the immediate
// predecessor -- the hop-validity check the ring topology gives for
// free -- and records it two ways: commit_records by the original
// committer's id (every commitment ever witnessed), and
// commit_from_predecessor only when the commitment belongs to the
// predecessor itself, since that is the one REVEAL's integrity check
// #2 needs. Forwarding stops once the message has made a full lap back
// to its own originator.
func (a *Agent) handleCommit(env types.Envelope) {
	if env.SenderID != a.Predecessor.ID {
		return
	}
	p := env.CommitPayload
	a.CommitRecords[p.OriginatorID] = p.NRand
	if p.OriginatorID == a.Predecessor.ID {
		v := p.NRand
		a.CommitFromPredecessor = &v
	}
	if p.OriginatorID == a.ID {
		return
	}
	a.send(a.Successor.ID, types.Envelope{
		Kind:          types.Commit,
		SenderID:      a.ID,
		CommitPayload: &types.CommitPayload{OriginatorID: p.OriginatorID, NRand: p.NRand},
	})
}

// handleReveal runs the two integrity checks against recorded
// commitments before appending this agent's own contribution and
// either forwarding the accumulated pairs or, once the message has
// returned to its originator with every id represented, computing and
// broadcasting the elected leader.
func (a *Agent) handleReveal(env types.Envelope) {
	p := env.RevealPayload
	if a.IDSet.Len() == 0 || !p.IDSet.Equal(a.IDSet) {
		return
	}

	for _, pair := range p.Pairs {
		if recorded, ok := a.CommitRecords[pair.ID]; ok && recorded != pair.N {
			a.abort(recorded, pair.N)
			return
		}
	}

	if p.LastAuthor != nil && *p.LastAuthor == a.Predecessor.ID {
		if len(p.Pairs) == 0 || a.CommitFromPredecessor == nil {
			return
		}
		last := p.Pairs[len(p.Pairs)-1]
		if last.N != *a.CommitFromPredecessor {
			a.abort(*a.CommitFromPredecessor, last.N)
			return
		}
	}

	pairs := p.Pairs
	hasOwn := false
	for _, pair := range pairs {
		if pair.ID == a.ID {
			hasOwn = true
			break
		}
	}
	if !hasOwn {
		pairs = append(append([]types.Pair{}, pairs...), types.Pair{ID: a.ID, N: a.ownReveal()})
	}

	originator := env.SenderID
	if originator == a.ID && len(pairs) == a.n {
		total := 0
		for _, pr := range pairs {
			total += pr.N
		}
		idx := ((total % a.n) + a.n) % a.n
		leader := a.IDSet.SortedDescending()[idx]

		a.Phase = types.PhaseFinalized
		a.Leader = &leader
		a.shared.ReceivedLeaderReports[a.ID] = struct{}{}
		a.logger.Infof("agent %d elected leader %d (total=%d idx=%d)", a.ID, leader, total, idx)
		a.send(a.Successor.ID, types.Envelope{
			Kind:     types.Choose,
			SenderID: originator,
			ChoosePayload: &types.ChoosePayload{
				IDSet:  a.IDSet.Clone(),
				Pairs:  pairs,
				Leader: leader,
			},
		})
		return
	}

	lastAuthor := a.ID
	a.send(a.Successor.ID, types.Envelope{
		Kind:     types.Reveal,
		SenderID: originator,
		RevealPayload: &types.RevealPayload{
			IDSet:      a.IDSet.Clone(),
			Pairs:      pairs,
			LastAuthor: &lastAuthor,
		},
	})
}

// ownReveal returns this agent's reveal contribution, lazily drawing
// one if no commitment was drawn locally during SETUP -- which is
// always the case for the originator (see handleSetup) -- rather than
// dropping the message.
func (a *Agent) ownReveal() int {
	if a.NRandReveal != nil {
		return *a.NRandReveal
	}
	v := a.rng.Intn(a.n)
	a.NRandReveal = &v
	if a.NRandCommit == nil {
		a.NRandCommit = &v
	}
	return v
}

// handleChoose adopts the broadcast leader, marks this agent
// finalized, and reports back to the starter via the shared run state.
// The lap terminates the same way every other phase does: once the
// message arrives back at its own originator, forwarding stops.
func (a *Agent) handleChoose(env types.Envelope) {
	p := env.ChoosePayload
	if !p.IDSet.Equal(a.IDSet) {
		return
	}
	leader := p.Leader
	a.Leader = &leader
	a.Phase = types.PhaseFinalized
	a.shared.ReceivedLeaderReports[a.ID] = struct{}{}

	if env.SenderID == a.ID {
		return
	}
	a.send(a.Successor.ID, types.Envelope{
		Kind:          types.Choose,
		SenderID:      env.SenderID,
		ChoosePayload: p,
	})
}

// abort raises the global punish state: every agent's next ProcessTick
// records a null leader and stops participating.
func (a *Agent) abort(expected, revealed int) {
	a.logger.Errorf("agent %d detected commitment mismatch: expected=%d revealed=%d", a.ID, expected, revealed)
	a.shared.Aborted = true
	a.Leader = nil
}
