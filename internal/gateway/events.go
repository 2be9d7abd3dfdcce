package gateway

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

// EventQuery carries the filters the events page exposes. Zero values are
// omitted from the query string.
type EventQuery struct {
	Search    string
	Ordering  string
	Locations []string // eventlocation__in, comma-joined
	DateFrom  string   // eventdate__gte, YYYY-MM-DD
	DateTo    string   // eventdate__lte, YYYY-MM-DD
	Limit     int
	Offset    int
}

func (q EventQuery) values() url.Values {
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
	if len(q.Locations) > 0 {
		v.Set("eventlocation__in", strings.Join(q.Locations, ","))
	}
	if q.DateFrom != "" {
		v.Set("eventdate__gte", q.DateFrom)
	}
	if q.DateTo != "" {
		v.Set("eventdate__lte", q.DateTo)
	}
	return v
}

// DefaultPageSize matches every list page in the UI.
const DefaultPageSize = 20

// ListEvents fetches the first page of events matching the query.
func (c *Client) ListEvents(ctx context.Context, q EventQuery) (models.Page[models.Event], error) {
	return GetPage[models.Event](ctx, c, "/api/events/", q.values())
}

// NextEvents follows a stored events cursor.
func (c *Client) NextEvents(ctx context.Context, next string) (models.Page[models.Event], error) {
	return FollowNext[models.Event](ctx, c, next)
}

// CreateEvent creates an event owned by the current user.
func (c *Client) CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	var event models.Event
	if err := c.doJSON(ctx, http.MethodPost, "/api/events/", nil, req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEvent fetches one event.
func (c *Client) GetEvent(ctx context.Context, eventID int) (*models.Event, error) {
	var event models.Event
	path := fmt.Sprintf("/api/events/%d/", eventID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent PATCHes the given fields and returns the authoritative record.
func (c *Client) UpdateEvent(ctx context.Context, eventID int, fields map[string]any) (*models.Event, error) {
	var event models.Event
	path := fmt.Sprintf("/api/events/%d/", eventID)
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, fields, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEventCover uploads a new cover image via multipart PATCH on the same
// resource.
func (c *Client) UpdateEventCover(ctx context.Context, eventID int, filename string, data []byte) (*models.Event, error) {
	var event models.Event
	path := fmt.Sprintf("/api/events/%d/", eventID)
	err := c.doMultipart(ctx, http.MethodPatch, path, func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("eventCoverPhoto", filename)
		if err != nil {
			return err
		}
		_, err = part.Write(data)
		return err
	}, &event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// EventViewers lists the users holding the viewer role on an event.
func (c *Client) EventViewers(ctx context.Context, eventID int) ([]models.User, error) {
	var users []models.User
	path := fmt.Sprintf("/api/events/%d/viewers/", eventID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// EventEditors lists the users holding the editor role on an event.
func (c *Client) EventEditors(ctx context.Context, eventID int) ([]models.User, error) {
	var users []models.User
	path := fmt.Sprintf("/api/events/%d/editors/", eventID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// RemoveEventViewer revokes a user's viewer role.
func (c *Client) RemoveEventViewer(ctx context.Context, eventID, userID int) error {
	path := fmt.Sprintf("/api/events/%d/remove_viewer/", eventID)
	query := url.Values{"user_id": []string{strconv.Itoa(userID)}}
	return c.doJSON(ctx, http.MethodDelete, path, query, nil, nil)
}

// RemoveEventEditor revokes a user's editor role.
func (c *Client) RemoveEventEditor(ctx context.Context, eventID, userID int) error {
	path := fmt.Sprintf("/api/events/%d/remove_editor/", eventID)
	query := url.Values{"user_id": []string{strconv.Itoa(userID)}}
	return c.doJSON(ctx, http.MethodDelete, path, query, nil, nil)
}

// CreateInvite creates a pending role grant on an event. expiresAt is an
// RFC 3339 timestamp or nil for no expiry.
func (c *Client) CreateInvite(ctx context.Context, eventID int, role string, expiresAt *string) (*models.Invite, error) {
	body := map[string]any{
		"role":       role,
		"expires_at": expiresAt,
	}

	var invite models.Invite
	path := fmt.Sprintf("/api/events/%d/invite/", eventID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, body, &invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

// AcceptInvite redeems an invite token for the current user.
func (c *Client) AcceptInvite(ctx context.Context, token string) (*models.InviteAcceptance, error) {
	var acc models.InviteAcceptance
	path := fmt.Sprintf("/api/invite/%s/accept/", url.PathEscape(token))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
