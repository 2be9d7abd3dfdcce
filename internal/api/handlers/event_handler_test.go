package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/api/middleware"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/session"
)

// eventBackend fakes one backend event and records every PATCH, in order.
type eventBackend struct {
	mu       sync.Mutex
	patches  []string // "multipart" or "json"
	jsonBody map[string]any
}

func (b *eventBackend) server(t *testing.T) *httptest.Server {
	t.Helper()
	eventJSON := func(w http.ResponseWriter, name string) {
		json.NewEncoder(w).Encode(map[string]any{
			"eventid":             9,
			"eventname":           name,
			"visibility":          "public",
			"my_role":             "owner",
			"eventCoverPhoto_url": "/media/covers/9.jpg",
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/login/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "s1", Path: "/"})
		json.NewEncoder(w).Encode(map[string]any{
			"token": "t",
			"user":  map[string]any{"userid": 4, "username": "asha", "email": "asha@example.com"},
		})
	})
	mux.HandleFunc("/api/events/9/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			eventJSON(w, "Holi")
		case http.MethodPatch:
			b.mu.Lock()
			defer b.mu.Unlock()
			if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				if err := r.ParseMultipartForm(1 << 20); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				if _, _, err := r.FormFile("eventCoverPhoto"); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				b.patches = append(b.patches, "multipart")
				eventJSON(w, "Holi")
				return
			}
			b.jsonBody = map[string]any{}
			json.NewDecoder(r.Body).Decode(&b.jsonBody)
			b.patches = append(b.patches, "json")
			name, _ := b.jsonBody["eventname"].(string)
			eventJSON(w, name)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newEventRouter(t *testing.T, backendURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := session.NewManager(backendURL, "", "test-secret", time.Hour, nil)
	h := NewHandlers(manager, nil)

	r := gin.New()
	app := r.Group("/app")
	app.POST("/auth/login", h.Auth.Login)

	protected := app.Group("")
	protected.Use(middleware.SessionMiddleware(manager))
	events := protected.Group("/events")
	events.POST("", h.Event.Create)
	events.GET("/:id", h.Event.Get)
	events.POST("/:id/editor", h.Event.StartEditor)
	events.POST("/:id/editor/change", h.Event.ChangeField)
	events.POST("/:id/editor/cover", h.Event.StageCover)
	events.POST("/:id/editor/save", h.Event.Save)
	events.POST("/:id/invites", h.Event.CreateInvite)

	return r
}

func TestEventEditor_StageCover(t *testing.T) {
	backend := &eventBackend{}
	r := newEventRouter(t, backend.server(t).URL)
	cookies := signIn(t, r)

	rr := postJSON(r, "/app/events/9/editor", nil, cookies)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = postFile(r, "/app/events/9/editor/cover", "eventCoverPhoto", "cover.jpg", []byte{1, 2, 3}, cookies)
	assert.Equal(t, http.StatusOK, rr.Code)

	var view struct {
		Draft     map[string]string `json:"draft"`
		HasStaged bool              `json:"has_staged_image"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.True(t, view.HasStaged)
	assert.Equal(t, "cover.jpg", view.Draft["eventCoverPhoto"])
}

func TestEventSave_CoverUploadsBeforeFieldPatch(t *testing.T) {
	backend := &eventBackend{}
	r := newEventRouter(t, backend.server(t).URL)
	cookies := signIn(t, r)

	postJSON(r, "/app/events/9/editor", nil, cookies)
	postFile(r, "/app/events/9/editor/cover", "eventCoverPhoto", "cover.jpg", []byte{1, 2, 3}, cookies)
	postJSON(r, "/app/events/9/editor/change", map[string]string{"field": "eventname", "value": "Holi 2026"}, cookies)

	rr := postJSON(r, "/app/events/9/editor/save", nil, cookies)
	assert.Equal(t, http.StatusOK, rr.Code)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, []string{"multipart", "json"}, backend.patches)
	assert.Equal(t, "Holi 2026", backend.jsonBody["eventname"])
	// The cover travels in the multipart request only.
	assert.NotContains(t, backend.jsonBody, "eventCoverPhoto")
}

func TestEventGet_ReportsManageCapability(t *testing.T) {
	backend := &eventBackend{}
	r := newEventRouter(t, backend.server(t).URL)
	cookies := signIn(t, r)

	req := httptest.NewRequest(http.MethodGet, "/app/events/9", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		CanManage bool `json:"can_manage"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.CanManage)
}

func TestCreateEvent_RejectsPrivateVisibility(t *testing.T) {
	backend := &eventBackend{}
	r := newEventRouter(t, backend.server(t).URL)
	cookies := signIn(t, r)

	rr := postJSON(r, "/app/events", map[string]string{
		"eventname":  "Secret party",
		"visibility": "private",
	}, cookies)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid visibility", resp["error"])
}

func TestCreateInvite_RejectsUnknownRole(t *testing.T) {
	backend := &eventBackend{}
	r := newEventRouter(t, backend.server(t).URL)
	cookies := signIn(t, r)

	rr := postJSON(r, "/app/events/9/invites", map[string]string{"role": "admin"}, cookies)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid role", resp["error"])
}
