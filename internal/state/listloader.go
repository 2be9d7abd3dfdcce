// Package state holds the per-page UI state machines: paginated list
// loaders, optimistic like toggles, draft editors, selection sets and upload
// batches. Each instance belongs to exactly one session and is discarded
// with it. A mutex stands in for the browser's single-threaded event loop;
// suspension still only happens at network-call boundaries.
package state

import (
	"context"
	"sync"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

// FetchFunc loads the first page of a list.
type FetchFunc[T any] func(ctx context.Context) (models.Page[T], error)

// NextFunc follows an opaque cursor URL to the following page.
type NextFunc[T any] func(ctx context.Context, next string) (models.Page[T], error)

// ListLoader drives a paginated, lazily extended list. The "next" cursor is
// a complete URL from the server, stored verbatim. Concurrent LoadMore
// triggers while a fetch is in flight are dropped.
type ListLoader[T any] struct {
	mu    sync.Mutex
	first FetchFunc[T]
	next  NextFunc[T]

	items    []T
	cursor   *string
	count    int
	inFlight bool
	loadErr  string
}

func NewListLoader[T any](first FetchFunc[T], next NextFunc[T]) *ListLoader[T] {
	return &ListLoader[T]{first: first, next: next}
}

// Load fetches the first page, replacing whatever was displayed. On failure
// the previously loaded items stay and the error is kept for inline display.
func (l *ListLoader[T]) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.inFlight {
		l.mu.Unlock()
		return nil
	}
	l.inFlight = true
	l.mu.Unlock()

	page, err := l.first(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight = false
	if err != nil {
		l.loadErr = err.Error()
		return err
	}
	l.items = page.Results
	l.cursor = page.Next
	l.count = page.Count
	l.loadErr = ""
	return nil
}

// LoadMore follows the stored cursor and appends the results. It reports
// false when the trigger was a no-op: no cursor left, or a fetch already in
// flight. A failed fetch keeps every already-loaded item.
func (l *ListLoader[T]) LoadMore(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if l.inFlight || l.cursor == nil {
		l.mu.Unlock()
		return false, nil
	}
	cursor := *l.cursor
	l.inFlight = true
	l.mu.Unlock()

	page, err := l.next(ctx, cursor)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight = false
	if err != nil {
		l.loadErr = err.Error()
		return true, err
	}
	l.items = append(l.items, page.Results...)
	l.cursor = page.Next
	l.count = page.Count
	l.loadErr = ""
	return true, nil
}

// Items returns a copy of the loaded items in display order. No dedup is
// performed across pages.
func (l *ListLoader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// HasMore reports whether a next cursor is present.
func (l *ListLoader[T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor != nil
}

// Count is the server-reported total across all pages.
func (l *ListLoader[T]) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Err is the inline error string of the last failed fetch, empty after a
// success.
func (l *ListLoader[T]) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadErr
}

// Filter drops loaded items the predicate rejects (bulk delete removes only
// the ids the server confirmed).
func (l *ListLoader[T]) Filter(keep func(T) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.items[:0]
	for _, item := range l.items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	l.items = kept
}

// Each visits every loaded item in place.
func (l *ListLoader[T]) Each(fn func(*T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		fn(&l.items[i])
	}
}
