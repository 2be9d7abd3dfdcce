package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

// PhotoQuery carries the gallery filters. Zero values are omitted.
type PhotoQuery struct {
	Search     string
	Ordering   string
	DateAfter  string // date_after, YYYY-MM-DD
	DateBefore string // date_before, YYYY-MM-DD
	EventID    int    // event
	UserID     int    // user (my-clicks view)
	Limit      int
	Offset     int
}

func (q PhotoQuery) values() url.Values {
	v := url.Values{}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	v.Set("limit", strconv.Itoa(limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	if q.DateAfter != "" {
		v.Set("date_after", q.DateAfter)
	}
	if q.DateBefore != "" {
		v.Set("date_before", q.DateBefore)
	}
	if q.EventID > 0 {
		v.Set("event", strconv.Itoa(q.EventID))
	}
	if q.UserID > 0 {
		v.Set("user", strconv.Itoa(q.UserID))
	}
	return v
}

// ListPhotos fetches the first page of photos matching the query.
func (c *Client) ListPhotos(ctx context.Context, q PhotoQuery) (models.Page[models.Photo], error) {
	return GetPage[models.Photo](ctx, c, "/api/photos/", q.values())
}

// NextPhotos follows a stored photos cursor.
func (c *Client) NextPhotos(ctx context.Context, next string) (models.Page[models.Photo], error) {
	return FollowNext[models.Photo](ctx, c, next)
}

// ToggleLike flips the current user's like on a photo and returns the
// authoritative state.
func (c *Client) ToggleLike(ctx context.Context, photoID int) (*models.LikeStatus, error) {
	var status models.LikeStatus
	path := fmt.Sprintf("/api/photos/%d/toggle-like/", photoID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// BulkDeletePhotos deletes the given photos in one request. The backend
// partitions the outcome; ids the caller lacks permission for are skipped,
// not failed.
func (c *Client) BulkDeletePhotos(ctx context.Context, photoIDs []int) (*models.BulkDeleteResult, error) {
	body := map[string][]int{"photo_ids": photoIDs}

	var result models.BulkDeleteResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/photos/bulk-delete/", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PhotoUpload is one file of a bulk upload batch.
type PhotoUpload struct {
	FileName      string
	Data          []byte
	PhotoDesc     string
	ExtractedTags []string
}

// BulkCreatePhotos sends the whole batch as one multipart request: repeated
// photoFile / photoDesc / event / extractedTags groups, tags JSON-stringified
// per file.
func (c *Client) BulkCreatePhotos(ctx context.Context, eventID int, uploads []PhotoUpload) error {
	return c.doMultipart(ctx, http.MethodPost, "/api/photos/bulk-create/", func(w *multipart.Writer) error {
		for _, up := range uploads {
			part, err := w.CreateFormFile("photoFile", up.FileName)
			if err != nil {
				return err
			}
			if _, err := part.Write(up.Data); err != nil {
				return err
			}

			if err := w.WriteField("photoDesc", up.PhotoDesc); err != nil {
				return err
			}
			if err := w.WriteField("event", strconv.Itoa(eventID)); err != nil {
				return err
			}

			tags := up.ExtractedTags
			if tags == nil {
				tags = []string{}
			}
			encoded, err := json.Marshal(tags)
			if err != nil {
				return err
			}
			if err := w.WriteField("extractedTags", string(encoded)); err != nil {
				return err
			}
		}
		return nil
	}, nil)
}
