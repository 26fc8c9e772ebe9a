// Package pager is the load-more controller behind every long list in the
// client: notifications, chat rooms, messages, comments, feed pages. It
// serializes page fetches, appends pages while preserving the caller's
// scroll position, and derives the has-more flag from server metadata
// rather than trusting a single boolean.
package pager

import (
	"context"
	"sync"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/logger"
)

// Fetcher retrieves one page of items plus the server pagination metadata
type Fetcher[T any] func(ctx context.Context, page, pageSize int) ([]T, api.PageMeta, error)

// Pager manages a paginated collection of T. Safe for concurrent use.
type Pager[T any] struct {
	mu       sync.Mutex
	fetch    Fetcher[T]
	pageSize int
	idOf     func(T) string

	items    []T
	seen     map[string]struct{}
	page     int
	hasMore  bool
	fetching bool
	failed   bool

	// filter context; sentinel triggers from an older epoch are ignored
	epoch  int
	filter string

	captureOffset func() int
	restoreOffset func(int)
}

// New creates a pager. idOf extracts a stable item id used to keep the
// merged sequence free of duplicates.
func New[T any](fetch Fetcher[T], pageSize int, idOf func(T) string) *Pager[T] {
	return &Pager[T]{
		fetch:    fetch,
		pageSize: pageSize,
		idOf:     idOf,
		seen:     make(map[string]struct{}),
	}
}

// SetScrollHooks installs the offset capture/restore pair invoked around
// every merge. Capture runs before items are mutated, restore after.
func (p *Pager[T]) SetScrollHooks(capture func() int, restore func(int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.captureOffset = capture
	p.restoreOffset = restore
}

// Items returns a copy of the merged item sequence
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// HasMore reports whether another page may exist
func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// IsFetchingMore reports whether a page fetch is in flight
func (p *Pager[T]) IsFetchingMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetching
}

// Failed reports whether the last fetch errored. This is distinct from a
// legitimately empty list.
func (p *Pager[T]) Failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// Page returns the last successfully loaded page number
func (p *Pager[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Filter returns the filter the current page sequence was initiated with
func (p *Pager[T]) Filter() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// Reset returns the collection to page zero under a new filter context.
// Results of any in-flight fetch started before the reset are discarded
// when they arrive.
func (p *Pager[T]) Reset(filter string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.seen = make(map[string]struct{})
	p.page = 0
	p.hasMore = false
	p.failed = false
	p.filter = filter
	p.epoch++
}

// LoadInitial fetches page 1 and replaces the collection
func (p *Pager[T]) LoadInitial(ctx context.Context) error {
	p.mu.Lock()
	if p.fetching {
		p.mu.Unlock()
		return nil
	}
	p.fetching = true
	epoch := p.epoch
	p.mu.Unlock()

	items, meta, err := p.fetch(ctx, 1, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetching = false

	if epoch != p.epoch {
		// Filter changed while the fetch was in flight
		return nil
	}

	if err != nil {
		p.failed = true
		p.hasMore = false
		return apperr.Normalize(err)
	}

	p.items = nil
	p.seen = make(map[string]struct{})
	p.failed = false
	p.page = 1
	p.merge(items)
	p.hasMore = derivedHasMore(meta, 1, len(items))
	return nil
}

// LoadMore fetches the next page and appends it. It is a no-op while a
// fetch is in flight or when no further pages exist; re-entrant calls are
// suppressed rather than queued.
func (p *Pager[T]) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.fetching || !p.hasMore || p.page == 0 {
		p.mu.Unlock()
		return nil
	}
	p.fetching = true
	epoch := p.epoch
	next := p.page + 1

	var offset int
	capture := p.captureOffset
	restore := p.restoreOffset
	p.mu.Unlock()

	if capture != nil {
		offset = capture()
	}

	items, meta, err := p.fetch(ctx, next, p.pageSize)

	p.mu.Lock()
	p.fetching = false

	if epoch != p.epoch {
		p.mu.Unlock()
		return nil
	}

	if err != nil {
		// Existing items stay untouched; stop the load-more loop
		// rather than retrying forever.
		p.failed = true
		p.hasMore = false
		p.mu.Unlock()
		return apperr.Normalize(err)
	}

	p.failed = false
	p.page = next
	p.merge(items)
	p.hasMore = derivedHasMore(meta, next, len(items))
	p.mu.Unlock()

	if restore != nil {
		restore(offset)
	}
	return nil
}

// SentinelTrigger returns the visibility callback for the end-of-list
// sentinel. The trigger is bound to the filter context that created it;
// firing after a Reset is ignored.
func (p *Pager[T]) SentinelTrigger() func(context.Context) error {
	p.mu.Lock()
	epoch := p.epoch
	p.mu.Unlock()

	return func(ctx context.Context) error {
		p.mu.Lock()
		stale := epoch != p.epoch
		p.mu.Unlock()
		if stale {
			logger.Debug("Ignoring sentinel from stale filter context")
			return nil
		}
		return p.LoadMore(ctx)
	}
}

// merge appends items, dropping ids already present
func (p *Pager[T]) merge(items []T) {
	for _, item := range items {
		id := p.idOf(item)
		if _, dup := p.seen[id]; dup {
			continue
		}
		p.seen[id] = struct{}{}
		p.items = append(p.items, item)
	}
}

// derivedHasMore trusts server metadata only when the fetched page actually
// carried items; an empty page terminates the sequence regardless.
func derivedHasMore(meta api.PageMeta, page, got int) bool {
	if got == 0 {
		return false
	}
	return meta.TotalPages > page
}
