// Package optimistic implements the snapshot/mutate/call/maybe-revert
// pattern once, so reactions, comments, and follow state do not each
// hand-roll their own rollback bookkeeping.
package optimistic

import (
	"sync"

	"github.com/banter-app/banter-cli/pkg/apperr"
)

// Action describes one optimistic mutation over state of type S.
// Snapshot captures the pre-mutation state, Apply performs the local
// mutation, Revert restores a snapshot, and Commit (optional) folds
// authoritative server data in after the call succeeds.
type Action[S any] struct {
	Snapshot func() S
	Apply    func()
	Revert   func(S)
	Commit   func()
}

// Run applies the mutation locally, then issues the call. On failure the
// exact pre-mutation snapshot is restored and the app-wide error handler is
// notified; on success Commit runs. The returned error is already
// normalized.
func (a Action[S]) Run(call func() error) error {
	snap := a.Snapshot()
	a.Apply()

	if err := call(); err != nil {
		a.Revert(snap)
		normalized := apperr.Normalize(err)
		apperr.Notify(normalized)
		return normalized
	}

	if a.Commit != nil {
		a.Commit()
	}
	return nil
}

// Sequencer assigns each mutation a monotonically increasing sequence
// number so that a response belonging to an older mutation can be detected
// and discarded instead of overwriting newer optimistic state. There is no
// request cancellation; overlapping calls are all issued, only their
// out-of-order results are dropped.
type Sequencer struct {
	mu     sync.Mutex
	issued uint64
}

// Next reserves a sequence number for a new mutation. Issuing a number
// immediately stales every older in-flight mutation: their local applies
// have been built over, so their responses must no longer touch state.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Accept reports whether a response with the given sequence number may be
// applied. Only the newest issued mutation's response counts; an older
// one is stale whether it succeeded or failed, so a slow rollback cannot
// clobber newer optimistic state.
func (s *Sequencer) Accept(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.issued
}
