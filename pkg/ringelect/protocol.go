// Package ringelect assembles the ring topology, the chosen transport
// variant, and the per-agent state machine from pkg/ringelect/core into
// a single runnable model, the way the teacher's top-level package
// wires pkg/mcast/core into a usable Unity.
package ringelect

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/jabolina/go-ringelect/pkg/ringelect/core"
	"github.com/jabolina/go-ringelect/pkg/ringelect/definition"
	"github.com/jabolina/go-ringelect/pkg/ringelect/types"
)

// Variant selects which transport the model runs over.
type Variant int

const (
	Sync Variant = iota
	Async
)

func (v Variant) String() string {
	if v == Async {
		return "async"
	}
	return "sync"
}

var (
	ErrInvalidSize       = errors.New("ringelect: N must be greater than zero")
	ErrTooManyMalicious  = errors.New("ringelect: malicious_nodes cannot exceed N")
	ErrInvalidDelay      = errors.New("ringelect: max_message_delay must be at least 1 for the async variant")
	ErrMaliciousNotAsync = errors.New("ringelect: malicious_nodes is only meaningful for the async variant")
)

// Config is the model's construction-time input, matching the external
// interface spec.md §6 describes.
type Config struct {
	N               int
	Variant         Variant
	MaxMessageDelay int
	MaliciousNodes  int
	Seed            int64

	// Logger and Storage default to definition.NewDefaultLogger() and
	// definition.NewMemoryStorage() when left nil.
	Logger  types.Logger
	Storage types.Storage
}

// Model is the driver-facing handle onto one election run: it owns the
// agent set, the transport, and the shared run state, and exposes the
// Step/AllFinished surface an external driver loop consumes.
type Model struct {
	RunID string

	agents     []*core.Agent
	agentsByID map[int]*core.Agent
	transport  core.Transport
	shared     *core.RunState

	n         int
	starterID int
	ticks     int

	logger  types.Logger
	storage types.Storage
}

// NewModel validates cfg, builds the ring, attaches the selected
// transport, picks a uniformly random starter, and kicks off its
// StartProtocol -- spec.md §4.7's model/driver glue.
func NewModel(cfg Config) (*Model, error) {
	if cfg.N <= 0 {
		return nil, ErrInvalidSize
	}
	if cfg.Variant == Async && cfg.MaxMessageDelay < 1 {
		return nil, ErrInvalidDelay
	}
	if cfg.MaliciousNodes < 0 || cfg.MaliciousNodes > cfg.N {
		return nil, ErrTooManyMalicious
	}
	if cfg.Variant == Sync && cfg.MaliciousNodes > 0 {
		return nil, ErrMaliciousNotAsync
	}

	logger := cfg.Logger
	if logger == nil {
		logger = definition.NewDefaultLogger()
	}
	storage := cfg.Storage
	if storage == nil {
		storage = definition.NewMemoryStorage()
	}

	runID := uuid.NewString()
	if named, ok := logger.(interface{ WithRunID(string) *definition.DefaultLogger }); ok {
		logger = named.WithRunID(runID)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	malicious := make(map[int]bool, cfg.MaliciousNodes)
	for _, id := range rng.Perm(cfg.N)[:cfg.MaliciousNodes] {
		malicious[id] = true
	}

	shared := &core.RunState{ReceivedLeaderReports: make(map[int]struct{})}

	drainAll := cfg.Variant == Sync
	agents := core.BuildRing(cfg.N, malicious, drainAll, rng, logger, shared)

	agentsByID := make(map[int]*core.Agent, cfg.N)
	for _, a := range agents {
		agentsByID[a.ID] = a
	}

	var transport core.Transport
	switch cfg.Variant {
	case Async:
		transport = core.NewAsyncTransport(agentsByID, rng, cfg.MaxMessageDelay, logger)
	default:
		transport = core.NewSyncTransport(agentsByID, logger)
	}
	for _, a := range agents {
		a.AttachTransport(transport)
	}

	starterID := rng.Intn(cfg.N)
	shared.StarterID = starterID

	m := &Model{
		RunID:      runID,
		agents:     agents,
		agentsByID: agentsByID,
		transport:  transport,
		shared:     shared,
		n:          cfg.N,
		starterID:  starterID,
		logger:     logger,
		storage:    storage,
	}

	agentsByID[starterID].StartProtocol()
	m.snapshot()
	return m, nil
}

// Step advances one tick: the transport delivers due messages, every
// agent processes its inbox per the variant's rule, then the model
// records a snapshot, matching spec.md §5's per-tick ordering.
func (m *Model) Step() {
	m.ticks++
	m.transport.Deliver(m.ticks)
	for _, a := range m.agents {
		a.ProcessTick()
	}
	m.snapshot()
}

// AllFinished reports whether every agent has a non-null leader, or the
// run has globally aborted.
func (m *Model) AllFinished() bool {
	if m.shared.Aborted {
		return true
	}
	for _, a := range m.agents {
		if a.Leader == nil {
			return false
		}
	}
	return true
}

func (m *Model) Aborted() bool { return m.shared.Aborted }

func (m *Model) Ticks() int { return m.ticks }

// ReceivedLeaderReports returns the set of agent ids that have reported
// the final leader back, per spec.md §4.5's starter-side completion.
func (m *Model) ReceivedLeaderReports() map[int]struct{} {
	out := make(map[int]struct{}, len(m.shared.ReceivedLeaderReports))
	for id := range m.shared.ReceivedLeaderReports {
		out[id] = struct{}{}
	}
	return out
}

func (m *Model) Agents() []*core.Agent { return m.agents }

func (m *Model) StarterID() int { return m.starterID }

// snapshot writes one StorageEntry per agent for the current tick, so
// an external observer reconstructs the run's history without polling
// live agent state. Keys carry the run id, so several runs sharing one
// Storage keep separate entries. A no-op when storage is nil; NewModel
// always replaces a nil Config.Storage with MemoryStorage, so the check
// is purely defensive.
func (m *Model) snapshot() {
	if m.storage == nil {
		return
	}
	for _, a := range m.agents {
		leader := -1
		if a.Leader != nil {
			leader = *a.Leader
		}
		value := make([]byte, 9)
		binary.BigEndian.PutUint32(value[0:4], uint32(int32(leader)))
		binary.BigEndian.PutUint32(value[4:8], uint32(int32(a.Phase)))
		boolByte := byte(0)
		if m.shared.Aborted {
			boolByte = 1
		}
		value[8] = boolByte
		_ = m.storage.Set(types.StorageEntry{
			Tick:  m.ticks,
			Key:   fmt.Sprintf("%s/agent-%d", m.RunID, a.ID),
			Value: value,
		})
	}
}
