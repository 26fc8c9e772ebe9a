package pager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/banter-app/banter-cli/pkg/api"
)

type row struct {
	ID string
}

func pageOf(page, size, totalPages int) ([]row, api.PageMeta) {
	items := make([]row, size)
	for i := range items {
		items[i] = row{ID: fmt.Sprintf("p%d-%d", page, i)}
	}
	return items, api.PageMeta{Page: page, PageSize: size, TotalPages: totalPages}
}

func rowID(r row) string { return r.ID }

// TestLoadInitialReplaces fetches page 1 and replaces state
func TestLoadInitialReplaces(t *testing.T) {
	p := New(func(_ context.Context, page, size int) ([]row, api.PageMeta, error) {
		items, meta := pageOf(page, size, 3)
		return items, meta, nil
	}, 4, rowID)

	if err := p.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}

	if len(p.Items()) != 4 {
		t.Errorf("Expected 4 items, got %d", len(p.Items()))
	}
	if !p.HasMore() {
		t.Error("Expected hasMore with 3 total pages")
	}
	if p.Page() != 1 {
		t.Errorf("Expected page 1, got %d", p.Page())
	}

	// A second initial load replaces, not appends
	if err := p.LoadInitial(context.Background()); err != nil {
		t.Fatalf("Second LoadInitial failed: %v", err)
	}
	if len(p.Items()) != 4 {
		t.Errorf("Expected 4 items after reload, got %d", len(p.Items()))
	}
}

// TestLoadMoreAppendsWithoutDuplicates merges successive pages
func TestLoadMoreAppendsWithoutDuplicates(t *testing.T) {
	p := New(func(_ context.Context, page, size int) ([]row, api.PageMeta, error) {
		items, meta := pageOf(page, size, 3)
		return items, meta, nil
	}, 4, rowID)

	ctx := context.Background()
	if err := p.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}
	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}

	items := p.Items()
	if len(items) != 12 {
		t.Fatalf("Expected 12 items, got %d", len(items))
	}

	ids := make(map[string]bool)
	for _, it := range items {
		if ids[it.ID] {
			t.Errorf("Duplicate id %s", it.ID)
		}
		ids[it.ID] = true
	}

	if p.HasMore() {
		t.Error("Expected hasMore false after the last page")
	}
	// Further calls are no-ops
	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("No-op LoadMore errored: %v", err)
	}
	if len(p.Items()) != 12 {
		t.Error("No-op LoadMore changed items")
	}
}

// TestLoadMoreSuppressesReentry never overlaps two in-flight fetches
func TestLoadMoreSuppressesReentry(t *testing.T) {
	var inFlight, maxInFlight atomic.Int64
	release := make(chan struct{})

	p := New(func(_ context.Context, page, size int) ([]row, api.PageMeta, error) {
		n := inFlight.Add(1)
		if n > maxInFlight.Load() {
			maxInFlight.Store(n)
		}
		if page > 1 {
			<-release
		}
		defer inFlight.Add(-1)
		items, meta := pageOf(page, size, 10)
		return items, meta, nil
	}, 2, rowID)

	ctx := context.Background()
	if err := p.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.LoadMore(ctx)
		}()
	}

	close(release)
	wg.Wait()

	if maxInFlight.Load() > 1 {
		t.Errorf("Concurrent fetches observed: %d", maxInFlight.Load())
	}
}

// TestEmptyPageTerminates forces hasMore false even when metadata disagrees
func TestEmptyPageTerminates(t *testing.T) {
	p := New(func(_ context.Context, page, size int) ([]row, api.PageMeta, error) {
		if page == 1 {
			items, meta := pageOf(page, size, 99)
			return items, meta, nil
		}
		// Server claims more pages but returns nothing
		return nil, api.PageMeta{Page: page, TotalPages: 99}, nil
	}, 3, rowID)

	ctx := context.Background()
	if err := p.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}
	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}

	if p.HasMore() {
		t.Error("Empty page must force hasMore=false")
	}
}

// TestFailureLeavesItemsUntouched keeps existing items and flags the error
func TestFailureLeavesItemsUntouched(t *testing.T) {
	fail := false
	p := New(func(_ context.Context, page, size int) ([]row, api.PageMeta, error) {
		if fail {
			return nil, api.PageMeta{}, errors.New("backend down")
		}
		items, meta := pageOf(page, size, 5)
		return items, meta, nil
	}, 3, rowID)

	ctx := context.Background()
	if err := p.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}
	before := len(p.Items())

	fail = true
	if err := p.LoadMore(ctx); err == nil {
		t.Fatal("Expected error")
	}

	if len(p.Items()) != before {
		t.Errorf("Failed fetch mutated items: %d != %d", len(p.Items()), before)
	}
	if p.HasMore() {
		t.Error("Failed fetch should stop the load-more loop")
	}
	if !p.Failed() {
		t.Error("Failed state should be distinct from empty")
	}
}

// TestResetBumpsEpoch discards in-flight results and stale sentinel triggers
func TestResetBumpsEpoch(t *testing.T) {
	block := make(chan struct{})
	p := New(func(_ context.Context, page, size int) ([]row, api.PageMeta, error) {
		if page == 2 {
			<-block
		}
		items, meta := pageOf(page, size, 5)
		return items, meta, nil
	}, 3, rowID)

	ctx := context.Background()
	if err := p.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}

	trigger := p.SentinelTrigger()

	done := make(chan error)
	go func() { done <- p.LoadMore(ctx) }()

	// Switch tabs while page 2 is in flight
	p.Reset("mentions")
	close(block)
	if err := <-done; err != nil {
		t.Fatalf("In-flight LoadMore errored: %v", err)
	}

	if len(p.Items()) != 0 {
		t.Errorf("Stale page applied after reset: %d items", len(p.Items()))
	}

	// The sentinel from the old tab context must be ignored
	if err := trigger(ctx); err != nil {
		t.Fatalf("Stale trigger errored: %v", err)
	}
	if len(p.Items()) != 0 {
		t.Error("Stale sentinel trigger fetched a page")
	}
}

// TestScrollHooks captures before the merge and restores after
func TestScrollHooks(t *testing.T) {
	p := New(func(_ context.Context, page, size int) ([]row, api.PageMeta, error) {
		items, meta := pageOf(page, size, 5)
		return items, meta, nil
	}, 3, rowID)

	var captured, restored int
	var capturedLen int
	p.SetScrollHooks(
		func() int {
			captured++
			capturedLen = len(p.Items())
			return 42
		},
		func(offset int) {
			restored = offset
		},
	)

	ctx := context.Background()
	if err := p.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial failed: %v", err)
	}
	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}

	if captured != 1 {
		t.Errorf("Expected one capture (load-more only), got %d", captured)
	}
	if capturedLen != 3 {
		t.Errorf("Capture should run before the merge, saw %d items", capturedLen)
	}
	if restored != 42 {
		t.Errorf("Expected restore with captured offset 42, got %d", restored)
	}
}
