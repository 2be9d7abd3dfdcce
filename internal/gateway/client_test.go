package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL)
	assert.NoError(t, err)
	return c, srv
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient("localhost:8000/api")
	assert.Error(t, err)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/login/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asha@example.com", body["email"])

		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "abc123", Path: "/"})
		json.NewEncoder(w).Encode(map[string]any{
			"token": "t0k3n",
			"user":  map[string]any{"userid": 9, "username": "asha"},
		})
	})
	mux.HandleFunc("/api/me/", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("sessionid")
		if err != nil || cookie.Value != "abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not signed in"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"userid": 9, "username": "asha"}})
	})

	c, _ := newTestClient(t, mux)

	resp, err := c.Login(context.Background(), "asha@example.com", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, 9, resp.User.UserID)

	// The jar carries the backend session on the next call.
	user, err := c.Me(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "asha", user.Username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))

	_, err := c.Login(context.Background(), "asha@example.com", "wrong")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var gerr *Error
	assert.True(t, errors.As(err, &gerr))
	assert.Equal(t, http.StatusBadRequest, gerr.Status)
	assert.Equal(t, "Invalid credentials", gerr.Message)
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"validation", http.StatusBadRequest, ErrValidation},
		{"conflict is validation", http.StatusConflict, ErrValidation},
		{"server", http.StatusInternalServerError, ErrServer},
		{"bad gateway", http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := c.Me(context.Background())
			assert.True(t, errors.Is(err, tt.kind), "status %d should map to %v", tt.status, tt.kind)
		})
	}
}

func TestAuthFailureDetection(t *testing.T) {
	assert.True(t, IsAuthFailure(&Error{Status: 401, kind: ErrUnauthorized}))
	assert.True(t, IsAuthFailure(&Error{Status: 403, kind: ErrForbidden}))
	assert.False(t, IsAuthFailure(&Error{Status: 404, kind: ErrNotFound}))
	assert.False(t, IsAuthFailure(errors.New("plain")))
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := c.Me(context.Background())
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestFollowNext_StripsOrigin(t *testing.T) {
	var gotPath, gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(models.Page[models.Photo]{Count: 0, Results: []models.Photo{}})
	}))

	// Cursor claims a different origin than the one we are configured for.
	_, err := FollowNext[models.Photo](context.Background(), c, "http://internal-backend:8000/api/photos/?limit=20&offset=20")
	assert.NoError(t, err)
	assert.Equal(t, "/api/photos/", gotPath)
	assert.Equal(t, "limit=20&offset=20", gotQuery)
}

func TestListPhotos_QueryParams(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "sunset", q.Get("search"))
		assert.Equal(t, "-uploadDate", q.Get("ordering"))
		assert.Equal(t, "42", q.Get("event"))
		assert.Equal(t, "2026-01-01", q.Get("date_after"))
		json.NewEncoder(w).Encode(models.Page[models.Photo]{Count: 1, Results: []models.Photo{{PhotoID: 1}}})
	}))

	page, err := c.ListPhotos(context.Background(), PhotoQuery{
		Search:    "sunset",
		Ordering:  "-uploadDate",
		EventID:   42,
		DateAfter: "2026-01-01",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, 1, page.Results[0].PhotoID)
}

func TestBulkDeletePhotos(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/photos/bulk-delete/", r.URL.Path)

		var body struct {
			PhotoIDs []int `json:"photo_ids"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int{1, 2, 3}, body.PhotoIDs)

		json.NewEncoder(w).Encode(models.BulkDeleteResult{
			Deleted:             []int{1, 2},
			SkippedNoPermission: []int{3},
		})
	}))

	result, err := c.BulkDeletePhotos(context.Background(), []int{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2}, result.Deleted)
	assert.Equal(t, []int{3}, result.SkippedNoPermission)
}

func TestBulkCreatePhotos_MultipartGroups(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(32<<20))

		files := r.MultipartForm.File["photoFile"]
		assert.Len(t, files, 2)

		descs := r.MultipartForm.Value["photoDesc"]
		assert.Equal(t, []string{"first", ""}, descs)

		events := r.MultipartForm.Value["event"]
		assert.Equal(t, []string{"7", "7"}, events)

		tags := r.MultipartForm.Value["extractedTags"]
		assert.Len(t, tags, 2)
		assert.JSONEq(t, `["dog"]`, tags[0])
		assert.JSONEq(t, `[]`, tags[1])

		w.WriteHeader(http.StatusCreated)
	}))

	err := c.BulkCreatePhotos(context.Background(), 7, []PhotoUpload{
		{FileName: "a.jpg", Data: []byte("aaa"), PhotoDesc: "first", ExtractedTags: []string{"dog"}},
		{FileName: "b.jpg", Data: []byte("bbb")},
	})
	assert.NoError(t, err)
}

func TestCreateInvite(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/events/5/invite/", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "editor", body["role"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Invite{InviteURL: "https://x/invite/abc", Role: "editor"})
	}))

	invite, err := c.CreateInvite(context.Background(), 5, "editor", nil)
	assert.NoError(t, err)
	assert.Equal(t, "editor", invite.Role)
	assert.NotEmpty(t, invite.InviteURL)
}
