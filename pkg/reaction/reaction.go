// Package reaction holds the per-entity reaction state machine: optimistic
// local mutation before the network call, exact rollback on failure, and a
// switch transition that never leaves the viewer observably reaction-less
// even when it is two sequential calls on the wire.
package reaction

import (
	"context"
	"sync"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/optimistic"
)

// State is the reaction state of one entity (post or comment)
type State struct {
	EntityID string
	Current  api.ReactionType // viewer's own reaction; empty means none
	Counts   map[api.ReactionType]int
	Total    int
	Users    map[api.ReactionType][]api.ReactionUser
}

func (s State) clone() State {
	out := s
	out.Counts = make(map[api.ReactionType]int, len(s.Counts))
	for k, v := range s.Counts {
		out.Counts[k] = v
	}
	out.Users = make(map[api.ReactionType][]api.ReactionUser, len(s.Users))
	for k, v := range s.Users {
		users := make([]api.ReactionUser, len(v))
		copy(users, v)
		out.Users[k] = users
	}
	return out
}

type mutationKind int

const (
	mutationAdd mutationKind = iota
	mutationRemove
	mutationSwitch
)

// Engine applies reaction mutations for a single entity. Safe for use from
// multiple goroutines; socket callbacks and command handlers may race.
type Engine struct {
	mu  sync.Mutex
	api *api.Client
	seq optimistic.Sequencer

	state State
	// non-empty for community-scoped entities, which use the combined
	// endpoint and treat the server response as authoritative
	communityID   string
	detailsLoaded bool
}

// NewEngine creates an engine from the reaction data an entity was first
// rendered with.
func NewEngine(c *api.Client, summary api.ReactionSummary) *Engine {
	e := &Engine{api: c}
	e.bind(summary)
	return e
}

// NewCommunityEngine creates an engine for a community-scoped entity
func NewCommunityEngine(c *api.Client, communityID string, summary api.ReactionSummary) *Engine {
	e := NewEngine(c, summary)
	e.communityID = communityID
	return e
}

func (e *Engine) bind(summary api.ReactionSummary) {
	counts := make(map[api.ReactionType]int, len(summary.Counts))
	for k, v := range summary.Counts {
		counts[k] = v
	}
	users := make(map[api.ReactionType][]api.ReactionUser, len(summary.Users))
	for k, v := range summary.Users {
		users[k] = append([]api.ReactionUser(nil), v...)
	}
	e.state = State{
		EntityID: summary.EntityID,
		Current:  summary.ViewerReaction,
		Counts:   counts,
		Total:    summary.TotalCount,
		Users:    users,
	}
	e.detailsLoaded = len(summary.Users) > 0
}

// Rebind points the engine at a different entity and invalidates the
// details cache.
func (e *Engine) Rebind(summary api.ReactionSummary) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bind(summary)
}

// Snapshot returns a copy of the current state
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Select applies the viewer's reaction choice. Selecting the current type
// removes it; selecting a different type switches; selecting with no
// current reaction adds. The local mutation happens before the network
// call; on failure the pre-mutation state is restored exactly. Rapid
// repeated calls are accepted, and a response arriving after a newer
// mutation has been applied is discarded.
func (e *Engine) Select(ctx context.Context, rt api.ReactionType) error {
	if !rt.Valid() {
		err := apperr.Validation("reaction", "unknown reaction type")
		apperr.Notify(err)
		return err
	}

	e.mu.Lock()
	prev := e.state.clone()
	var kind mutationKind
	switch {
	case e.state.Current == rt:
		kind = mutationRemove
	case e.state.Current != "":
		kind = mutationSwitch
	default:
		kind = mutationAdd
	}
	seq := e.seq.Next()
	e.mu.Unlock()

	action := optimistic.Action[State]{
		Snapshot: func() State { return prev },
		Apply:    func() { e.applyLocal(kind, rt) },
		Revert: func(s State) {
			e.mu.Lock()
			defer e.mu.Unlock()
			// A rollback for a stale mutation must not clobber a
			// newer optimistic state.
			if e.seq.Accept(seq) {
				e.state = s
			}
		},
	}

	if e.communityID != "" {
		return e.selectCommunity(ctx, action, rt, kind, seq)
	}
	return e.selectRegular(ctx, action, rt, kind, prev.Current, seq)
}

func (e *Engine) selectRegular(ctx context.Context, action optimistic.Action[State], rt api.ReactionType, kind mutationKind, previous api.ReactionType, seq uint64) error {
	// Optimistic state is final on success for non-community entities
	action.Commit = func() {
		e.seq.Accept(seq)
	}

	return action.Run(func() error {
		switch kind {
		case mutationRemove:
			return e.api.RemoveReaction(ctx, e.entityID(), rt)
		case mutationSwitch:
			if err := e.api.RemoveReaction(ctx, e.entityID(), previous); err != nil {
				return err
			}
			return e.api.AddReaction(ctx, e.entityID(), rt)
		default:
			return e.api.AddReaction(ctx, e.entityID(), rt)
		}
	})
}

func (e *Engine) selectCommunity(ctx context.Context, action optimistic.Action[State], rt api.ReactionType, kind mutationKind, seq uint64) error {
	var authoritative *api.ReactionSummary

	action.Commit = func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		// The combined endpoint reports the resulting state in one
		// response; it replaces local state wholesale.
		if e.seq.Accept(seq) && authoritative != nil {
			e.bind(*authoritative)
		}
	}

	return action.Run(func() error {
		summary, err := e.api.ReactToCommunityPost(ctx, e.communityID, e.entityID(), rt, kind == mutationRemove)
		if err != nil {
			return err
		}
		authoritative = summary
		return nil
	})
}

func (e *Engine) entityID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.EntityID
}

func (e *Engine) applyLocal(kind mutationKind, rt api.ReactionType) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch kind {
	case mutationRemove:
		e.decr(rt)
		e.state.Total--
		e.state.Current = ""
	case mutationSwitch:
		e.decr(e.state.Current)
		e.state.Counts[rt]++
		// Total is conserved on a pure switch
		e.state.Current = rt
	default:
		e.state.Counts[rt]++
		e.state.Total++
		e.state.Current = rt
	}
	if e.state.Total < 0 {
		e.state.Total = 0
	}
}

func (e *Engine) decr(rt api.ReactionType) {
	if e.state.Counts[rt] > 0 {
		e.state.Counts[rt]--
	}
}

// LoadDetails fetches per-type counts and participant lists for the tooltip
// view. Idempotent: results are cached until the engine is rebound to a
// different entity.
func (e *Engine) LoadDetails(ctx context.Context) (State, error) {
	e.mu.Lock()
	if e.detailsLoaded {
		defer e.mu.Unlock()
		return e.state.clone(), nil
	}
	entityID := e.state.EntityID
	e.mu.Unlock()

	summary, err := e.api.GetReactionSummary(ctx, entityID)
	if err != nil {
		return State{}, apperr.Normalize(err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// The engine may have been rebound while the fetch was in flight
	if e.state.EntityID == entityID {
		e.bind(*summary)
		e.detailsLoaded = true
	}
	return e.state.clone(), nil
}
