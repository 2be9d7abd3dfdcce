package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/api/middleware"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/session"
)

// galleryBackend fakes the photo endpoints of the KeepEvents API.
type galleryBackend struct {
	likeCalls atomic.Int32
}

func (b *galleryBackend) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/login/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "s1", Path: "/"})
		json.NewEncoder(w).Encode(map[string]any{
			"token": "t",
			"user":  map[string]any{"userid": 4, "username": "asha"},
		})
	})
	mux.HandleFunc("/api/photos/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"count": 3,
			"next":  nil,
			"results": []map[string]any{
				{"photoid": 1, "likecount": 5, "liked_by_me": false, "event": 7},
				{"photoid": 2, "likecount": 0, "liked_by_me": false, "event": 7},
				{"photoid": 3, "likecount": 9, "liked_by_me": true, "event": 7},
			},
		})
	})
	mux.HandleFunc("/api/photos/1/toggle-like/", func(w http.ResponseWriter, r *http.Request) {
		b.likeCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{"liked": true, "likes": 6})
	})
	mux.HandleFunc("/api/photos/bulk-delete/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"deleted":               []int{1},
			"skipped_no_permission": []int{2},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newGalleryRouter(t *testing.T, backendURL string) (*gin.Engine, []*http.Cookie) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := session.NewManager(backendURL, "", "test-secret", time.Hour, nil)
	h := NewHandlers(manager, nil)

	r := gin.New()
	app := r.Group("/app")
	app.POST("/auth/login", h.Auth.Login)

	protected := app.Group("")
	protected.Use(middleware.SessionMiddleware(manager))
	browse := protected.Group("/browse")
	browse.GET("", h.Photo.BrowseLoad())
	browse.POST("/like/:photoID", h.Photo.BrowseLike())
	browse.POST("/select/:photoID", h.Photo.BrowseSelect())
	browse.POST("/selection/delete", h.Photo.BrowseDelete())
	protected.POST("/events/:id/uploads/files", h.Photo.AddFiles)

	login := postJSON(r, "/app/auth/login", map[string]string{
		"email":    "asha@example.com",
		"password": "x",
	}, nil)
	assert.Equal(t, http.StatusOK, login.Code)

	return r, login.Result().Cookies()
}

func doGet(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestBrowseGallery_LoadAndLike(t *testing.T) {
	backend := &galleryBackend{}
	r, cookies := newGalleryRouter(t, backend.server(t).URL)

	rr := doGet(r, "/app/browse", cookies)
	assert.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Count   int `json:"count"`
		Results []struct {
			PhotoID int  `json:"photoid"`
			Likes   int  `json:"likecount"`
			Liked   bool `json:"liked_by_me"`
		} `json:"results"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Count)
	assert.Len(t, page.Results, 3)

	like := postJSON(r, "/app/browse/like/1", nil, cookies)
	assert.Equal(t, http.StatusOK, like.Code)

	var status struct {
		Liked   bool `json:"liked"`
		Likes   int  `json:"likes"`
		Applied bool `json:"applied"`
	}
	assert.NoError(t, json.Unmarshal(like.Body.Bytes(), &status))
	assert.True(t, status.Liked)
	assert.Equal(t, 6, status.Likes)
	assert.True(t, status.Applied)
	assert.Equal(t, int32(1), backend.likeCalls.Load())

	// The toggled state shows up in the gallery response.
	rr2 := doGet(r, "/app/browse", cookies)
	assert.NoError(t, json.Unmarshal(rr2.Body.Bytes(), &page))
	assert.True(t, page.Results[0].Liked)
	assert.Equal(t, 6, page.Results[0].Likes)
}

func TestBrowseGallery_LikeUnknownPhoto(t *testing.T) {
	backend := &galleryBackend{}
	r, cookies := newGalleryRouter(t, backend.server(t).URL)

	doGet(r, "/app/browse", cookies)

	rr := postJSON(r, "/app/browse/like/99", nil, cookies)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpload_SameFilenameTwiceStagesTwoDrafts(t *testing.T) {
	backend := &galleryBackend{}
	r, cookies := newGalleryRouter(t, backend.server(t).URL)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, content := range []string{"first", "second"} {
		part, err := w.CreateFormFile("files", "IMG_001.jpg")
		assert.NoError(t, err)
		part.Write([]byte(content))
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/app/events/7/uploads/files", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Added []struct {
			ID       string `json:"id"`
			FileName string `json:"fileName"`
		} `json:"added"`
		Drafts []struct {
			ID string `json:"id"`
		} `json:"drafts"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Added, 2)
	assert.NotEqual(t, resp.Added[0].ID, resp.Added[1].ID)
	assert.Len(t, resp.Drafts, 2)
}

func TestBrowseGallery_BulkDeletePartition(t *testing.T) {
	backend := &galleryBackend{}
	r, cookies := newGalleryRouter(t, backend.server(t).URL)

	doGet(r, "/app/browse", cookies)
	postJSON(r, "/app/browse/select/1", nil, cookies)
	postJSON(r, "/app/browse/select/2", nil, cookies)

	rr := postJSON(r, "/app/browse/selection/delete", nil, cookies)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Deleted []int `json:"deleted"`
		Skipped []int `json:"skipped_no_permission"`
		Results []struct {
			PhotoID int `json:"photoid"`
		} `json:"results"`
		Selection     []int `json:"selection"`
		SelectionMode bool  `json:"selection_mode"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []int{1}, resp.Deleted)
	assert.Equal(t, []int{2}, resp.Skipped)

	// Photo 1 left the grid, the skipped photo 2 stays, and selection mode
	// ends regardless.
	ids := make([]int, 0, len(resp.Results))
	for _, p := range resp.Results {
		ids = append(ids, p.PhotoID)
	}
	assert.Equal(t, []int{2, 3}, ids)
	assert.Empty(t, resp.Selection)
	assert.False(t, resp.SelectionMode)
}
