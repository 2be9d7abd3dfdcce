package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

// FeedQuery filters the comments and likes sub-lists of a photo. PhotoID 0
// means unscoped (my-comments / my-likes views pass UserID instead).
type FeedQuery struct {
	PhotoID  int
	UserID   int
	Ordering string
	Limit    int
}

func (q FeedQuery) values(defaultOrdering string) url.Values {
	v := url.Values{}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	v.Set("limit", strconv.Itoa(limit))
	ordering := q.Ordering
	if ordering == "" {
		ordering = defaultOrdering
	}
	v.Set("ordering", ordering)
	if q.PhotoID > 0 {
		v.Set("photo", strconv.Itoa(q.PhotoID))
	}
	if q.UserID > 0 {
		v.Set("user", strconv.Itoa(q.UserID))
	}
	return v
}

// ListComments fetches the first page of comments.
func (c *Client) ListComments(ctx context.Context, q FeedQuery) (models.Page[models.Comment], error) {
	return GetPage[models.Comment](ctx, c, "/api/comments/", q.values("-commentedAt"))
}

// NextComments follows a stored comments cursor.
func (c *Client) NextComments(ctx context.Context, next string) (models.Page[models.Comment], error) {
	return FollowNext[models.Comment](ctx, c, next)
}

// AddComment posts a comment on a photo and returns the created record.
func (c *Client) AddComment(ctx context.Context, photoID int, text string) (*models.Comment, error) {
	body := map[string]any{
		"photo":       photoID,
		"commentText": text,
	}

	var comment models.Comment
	if err := c.doJSON(ctx, http.MethodPost, "/api/comments/", nil, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment by id. Comments are never edited.
func (c *Client) DeleteComment(ctx context.Context, commentID int) error {
	path := fmt.Sprintf("/api/comments/%d/", commentID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// ListLikes fetches the first page of likes.
func (c *Client) ListLikes(ctx context.Context, q FeedQuery) (models.Page[models.Like], error) {
	return GetPage[models.Like](ctx, c, "/api/likes/", q.values("-likedAt"))
}

// NextLikes follows a stored likes cursor.
func (c *Client) NextLikes(ctx context.Context, next string) (models.Page[models.Like], error) {
	return FollowNext[models.Like](ctx, c, next)
}
