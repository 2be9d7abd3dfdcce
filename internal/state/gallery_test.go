package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/gateway"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

// fakePhotoAPI serves canned pages and records the calls it sees.
type fakePhotoAPI struct {
	photos      []models.Photo
	listQueries []gateway.PhotoQuery

	deleteResult *models.BulkDeleteResult
	deleteErr    error
	deletedIDs   []int

	likeStatus *models.LikeStatus
	likeErr    error
}

func (f *fakePhotoAPI) ListPhotos(ctx context.Context, q gateway.PhotoQuery) (models.Page[models.Photo], error) {
	f.listQueries = append(f.listQueries, q)
	return models.Page[models.Photo]{Count: len(f.photos), Results: f.photos}, nil
}

func (f *fakePhotoAPI) NextPhotos(ctx context.Context, next string) (models.Page[models.Photo], error) {
	return models.Page[models.Photo]{}, nil
}

func (f *fakePhotoAPI) ToggleLike(ctx context.Context, photoID int) (*models.LikeStatus, error) {
	return f.likeStatus, f.likeErr
}

func (f *fakePhotoAPI) BulkDeletePhotos(ctx context.Context, photoIDs []int) (*models.BulkDeleteResult, error) {
	f.deletedIDs = photoIDs
	return f.deleteResult, f.deleteErr
}

func photoFixtures(ids ...int) []models.Photo {
	out := make([]models.Photo, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Photo{PhotoID: id, Likes: 5})
	}
	return out
}

func TestGallery_DeleteSelectedPartition(t *testing.T) {
	api := &fakePhotoAPI{
		photos: photoFixtures(1, 2, 3, 4),
		deleteResult: &models.BulkDeleteResult{
			Deleted:             []int{1, 2},
			SkippedNoPermission: []int{3},
		},
	}
	g := NewGallery(api, gateway.PhotoQuery{})
	assert.NoError(t, g.Load(context.Background()))

	g.ToggleSelect(1)
	g.ToggleSelect(2)
	g.ToggleSelect(3)

	result, err := g.DeleteSelected(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, api.deletedIDs)
	assert.Equal(t, []int{1, 2}, result.Deleted)
	assert.Equal(t, []int{3}, result.SkippedNoPermission)

	// Only the confirmed deletions leave the display.
	remaining := g.Photos()
	ids := make([]int, 0, len(remaining))
	for _, p := range remaining {
		ids = append(ids, p.PhotoID)
	}
	assert.Equal(t, []int{3, 4}, ids)

	// Selection clears even after a partial delete.
	assert.False(t, g.SelectionMode())
	assert.Empty(t, g.SelectedIDs())
}

func TestGallery_DeleteSelectedFailureKeepsSelection(t *testing.T) {
	api := &fakePhotoAPI{
		photos:    photoFixtures(1, 2),
		deleteErr: errors.New("backend down"),
	}
	g := NewGallery(api, gateway.PhotoQuery{})
	assert.NoError(t, g.Load(context.Background()))

	g.ToggleSelect(1)
	g.ToggleSelect(2)

	_, err := g.DeleteSelected(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []int{1, 2}, g.SelectedIDs())
	assert.Len(t, g.Photos(), 2)
}

func TestGallery_DeleteEmptySelectionSkipsRequest(t *testing.T) {
	api := &fakePhotoAPI{photos: photoFixtures(1)}
	g := NewGallery(api, gateway.PhotoQuery{})
	assert.NoError(t, g.Load(context.Background()))

	result, err := g.DeleteSelected(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, result.Deleted)
	assert.Nil(t, api.deletedIDs)
}

func TestGallery_ToggleLikeFoldsIntoPhotos(t *testing.T) {
	api := &fakePhotoAPI{
		photos:     photoFixtures(1, 2),
		likeStatus: &models.LikeStatus{Liked: true, Likes: 6},
	}
	g := NewGallery(api, gateway.PhotoQuery{})
	assert.NoError(t, g.Load(context.Background()))

	status, applied, err := g.ToggleLike(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, status.Liked)
	assert.Equal(t, 6, status.Likes)

	photos := g.Photos()
	assert.True(t, photos[0].LikedByMe)
	assert.Equal(t, 6, photos[0].Likes)
	// The other photo is untouched.
	assert.False(t, photos[1].LikedByMe)
	assert.Equal(t, 5, photos[1].Likes)
}

func TestGallery_ToggleLikeUnknownPhoto(t *testing.T) {
	api := &fakePhotoAPI{photos: photoFixtures(1)}
	g := NewGallery(api, gateway.PhotoQuery{})
	assert.NoError(t, g.Load(context.Background()))

	_, _, err := g.ToggleLike(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUnknownPhoto)
}

func TestGallery_FiltersReplaceQueryAndResetRestoresBase(t *testing.T) {
	api := &fakePhotoAPI{photos: photoFixtures(1)}
	base := gateway.PhotoQuery{EventID: 42}
	g := NewGallery(api, base)

	assert.NoError(t, g.Load(context.Background()))
	assert.NoError(t, g.ApplyFilters(context.Background(), gateway.PhotoQuery{EventID: 42, Search: "sunset"}))
	assert.True(t, g.FilterApplied())
	assert.NoError(t, g.Reset(context.Background()))
	assert.False(t, g.FilterApplied())

	assert.Equal(t, []gateway.PhotoQuery{
		base,
		{EventID: 42, Search: "sunset"},
		base,
	}, api.listQueries)
}

func TestSelection_ToggleAndOrder(t *testing.T) {
	s := NewSelection()

	assert.True(t, s.Toggle(3))
	assert.True(t, s.Toggle(1))
	assert.True(t, s.Toggle(2))
	assert.False(t, s.Toggle(1)) // second toggle deselects

	assert.Equal(t, []int{2, 3}, s.IDs())
	assert.True(t, s.Active())
	assert.Equal(t, 2, s.Count())

	s.Clear()
	assert.False(t, s.Active())
	assert.Empty(t, s.IDs())
}
