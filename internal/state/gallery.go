package state

import (
	"context"
	"errors"
	"sync"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/gateway"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

// ErrUnknownPhoto is returned when an operation targets a photo that is not
// currently displayed.
var ErrUnknownPhoto = errors.New("photo not in gallery")

// PhotoAPI is the slice of the gateway a gallery needs.
type PhotoAPI interface {
	ListPhotos(ctx context.Context, q gateway.PhotoQuery) (models.Page[models.Photo], error)
	NextPhotos(ctx context.Context, next string) (models.Page[models.Photo], error)
	ToggleLike(ctx context.Context, photoID int) (*models.LikeStatus, error)
	BulkDeletePhotos(ctx context.Context, photoIDs []int) (*models.BulkDeleteResult, error)
}

// Gallery is the state of one photo grid page: the paginated list, the
// selection set, and one optimistic like toggle per displayed photo. The
// same type backs the global gallery, per-event galleries and the my-clicks
// view; only the base query differs.
type Gallery struct {
	api    PhotoAPI
	loader *ListLoader[models.Photo]

	selection *Selection

	mu            sync.Mutex
	baseQuery     gateway.PhotoQuery
	query         gateway.PhotoQuery
	filterApplied bool
	toggles       map[int]*LikeToggle
}

// NewGallery creates a gallery over the given base query.
func NewGallery(api PhotoAPI, base gateway.PhotoQuery) *Gallery {
	g := &Gallery{
		api:       api,
		selection: NewSelection(),
		baseQuery: base,
		query:     base,
		toggles:   make(map[int]*LikeToggle),
	}
	g.loader = NewListLoader(
		func(ctx context.Context) (models.Page[models.Photo], error) {
			return api.ListPhotos(ctx, g.currentQuery())
		},
		api.NextPhotos,
	)
	return g
}

func (g *Gallery) currentQuery() gateway.PhotoQuery {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.query
}

// Load fetches the first page with the current query.
func (g *Gallery) Load(ctx context.Context) error {
	return g.loader.Load(ctx)
}

// ApplyFilters replaces the query and reloads from page one.
func (g *Gallery) ApplyFilters(ctx context.Context, q gateway.PhotoQuery) error {
	g.mu.Lock()
	g.query = q
	g.filterApplied = true
	g.mu.Unlock()
	return g.loader.Load(ctx)
}

// Reset drops the filters and reloads the base query.
func (g *Gallery) Reset(ctx context.Context) error {
	g.mu.Lock()
	g.query = g.baseQuery
	g.filterApplied = false
	g.mu.Unlock()
	return g.loader.Load(ctx)
}

// FilterApplied reports whether a non-base query is active.
func (g *Gallery) FilterApplied() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filterApplied
}

// LoadMore follows the cursor; no-op while a fetch is in flight or when the
// cursor is exhausted.
func (g *Gallery) LoadMore(ctx context.Context) (bool, error) {
	return g.loader.LoadMore(ctx)
}

// Photos returns the displayed photos with the optimistic like state folded
// into each record.
func (g *Gallery) Photos() []models.Photo {
	photos := g.loader.Items()
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range photos {
		if t, ok := g.toggles[photos[i].PhotoID]; ok {
			photos[i].LikedByMe, photos[i].Likes = t.State()
		}
	}
	return photos
}

// HasMore reports whether another page exists.
func (g *Gallery) HasMore() bool { return g.loader.HasMore() }

// Err is the inline error of the last failed fetch.
func (g *Gallery) Err() string { return g.loader.Err() }

// Count is the server-reported total.
func (g *Gallery) Count() int { return g.loader.Count() }

func (g *Gallery) toggleFor(photoID int) (*LikeToggle, error) {
	g.mu.Lock()
	if t, ok := g.toggles[photoID]; ok {
		g.mu.Unlock()
		return t, nil
	}
	g.mu.Unlock()

	var seed *models.Photo
	g.loader.Each(func(p *models.Photo) {
		if p.PhotoID == photoID {
			copy := *p
			seed = &copy
		}
	})
	if seed == nil {
		return nil, ErrUnknownPhoto
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if t, ok := g.toggles[photoID]; ok {
		return t, nil
	}
	t := NewLikeToggle(seed.LikedByMe, seed.Likes)
	g.toggles[photoID] = t
	return t, nil
}

// ToggleLike optimistically toggles one photo's like. applied=false means
// the invocation was dropped by the per-photo in-flight guard. Toggles on
// distinct photos run independently.
func (g *Gallery) ToggleLike(ctx context.Context, photoID int) (status models.LikeStatus, applied bool, err error) {
	t, err := g.toggleFor(photoID)
	if err != nil {
		return models.LikeStatus{}, false, err
	}

	applied, err = t.Toggle(ctx, func(ctx context.Context) (*models.LikeStatus, error) {
		return g.api.ToggleLike(ctx, photoID)
	})

	liked, count := t.State()
	return models.LikeStatus{Liked: liked, Likes: count}, applied, err
}

// ToggleSelect flips one photo in and out of the selection set.
func (g *Gallery) ToggleSelect(photoID int) bool { return g.selection.Toggle(photoID) }

// ClearSelection leaves selection mode.
func (g *Gallery) ClearSelection() { g.selection.Clear() }

// SelectionMode reports whether any photo is selected.
func (g *Gallery) SelectionMode() bool { return g.selection.Active() }

// SelectedIDs returns the selected photo ids in ascending order.
func (g *Gallery) SelectedIDs() []int { return g.selection.IDs() }

// DeleteSelected bulk-deletes the selection. Only ids the server confirmed
// deleted leave the display; skipped ids stay visible. The selection clears
// unconditionally after a response, even a partial one; a transport failure
// keeps it so the user can retry.
func (g *Gallery) DeleteSelected(ctx context.Context) (*models.BulkDeleteResult, error) {
	ids := g.selection.IDs()
	if len(ids) == 0 {
		return &models.BulkDeleteResult{Deleted: []int{}, SkippedNoPermission: []int{}}, nil
	}

	result, err := g.api.BulkDeletePhotos(ctx, ids)
	if err != nil {
		return nil, err
	}

	deleted := make(map[int]struct{}, len(result.Deleted))
	for _, id := range result.Deleted {
		deleted[id] = struct{}{}
	}
	g.loader.Filter(func(p models.Photo) bool {
		_, gone := deleted[p.PhotoID]
		return !gone
	})

	g.mu.Lock()
	for id := range deleted {
		delete(g.toggles, id)
	}
	g.mu.Unlock()

	g.selection.Clear()
	return result, nil
}
