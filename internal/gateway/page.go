package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

// GetPage fetches the first page of a list endpoint.
func GetPage[T any](ctx context.Context, c *Client, path string, query url.Values) (models.Page[T], error) {
	var page models.Page[T]
	err := c.doJSON(ctx, http.MethodGet, path, query, nil, &page)
	return page, err
}

// FollowNext re-issues a stored "next" cursor. The cursor is a complete URL
// produced by the backend; only its path and query are kept so the request
// always goes to the configured origin, never wherever the backend thinks it
// lives.
func FollowNext[T any](ctx context.Context, c *Client, next string) (models.Page[T], error) {
	var page models.Page[T]

	u, err := url.Parse(next)
	if err != nil {
		return page, &Error{Message: "bad pagination cursor: " + err.Error(), kind: ErrServer}
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return page, &Error{Message: "bad pagination cursor query: " + err.Error(), kind: ErrServer}
	}

	err = c.doJSON(ctx, http.MethodGet, u.Path, query, nil, &page)
	return page, err
}
