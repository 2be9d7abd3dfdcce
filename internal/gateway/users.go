package gateway

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

// GetUser fetches one profile.
func (c *Client) GetUser(ctx context.Context, userID int) (*models.User, error) {
	var user models.User
	path := fmt.Sprintf("/api/users/%d/", userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser PATCHes profile fields and returns the authoritative record.
func (c *Client) UpdateUser(ctx context.Context, userID int, fields map[string]any) (*models.User, error) {
	var user models.User
	path := fmt.Sprintf("/api/users/%d/", userID)
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, fields, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserImage uploads a new profile image via multipart PATCH on the
// same resource.
func (c *Client) UpdateUserImage(ctx context.Context, userID int, filename string, data []byte) (*models.User, error) {
	var user models.User
	path := fmt.Sprintf("/api/users/%d/", userID)
	err := c.doMultipart(ctx, http.MethodPatch, path, func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("userProfile", filename)
		if err != nil {
			return err
		}
		_, err = part.Write(data)
		return err
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ActivitySummary fetches the aggregated stats block of the activity page.
func (c *Client) ActivitySummary(ctx context.Context) (*models.ActivitySummary, error) {
	var summary models.ActivitySummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/my-activity/", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
