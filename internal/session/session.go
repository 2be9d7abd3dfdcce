package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/gateway"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/state"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/tagging"
)

var (
	ErrInvalidToken    = errors.New("invalid session token")
	ErrSessionNotFound = errors.New("session not found")
)

// Session is one signed-in browser's server-side state: its own backend
// API client (cookie jar included), the signed-in user, and the page state
// machines created lazily as pages are opened.
type Session struct {
	ID        string
	API       *gateway.Client
	CreatedAt time.Time

	tagger *tagging.Client

	mu       sync.Mutex
	user     *models.User
	lastSeen time.Time

	events         *state.ListLoader[models.Event]
	eventsQuery    gateway.EventQuery
	eventsFiltered bool

	browse        *state.Gallery
	activity      *state.Gallery
	eventGalleries map[int]*state.Gallery

	profile      *state.DraftEditor
	eventEditors map[int]*state.DraftEditor

	uploads  map[int]*state.UploadBatch
	comments map[int]*state.ListLoader[models.Comment]
	likes    map[int]*state.ListLoader[models.Like]
}

func newSession(id string, api *gateway.Client, tagger *tagging.Client) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		API:            api,
		CreatedAt:      now,
		tagger:         tagger,
		lastSeen:       now,
		eventGalleries: make(map[int]*state.Gallery),
		eventEditors:   make(map[int]*state.DraftEditor),
		uploads:        make(map[int]*state.UploadBatch),
		comments:       make(map[int]*state.ListLoader[models.Comment]),
		likes:          make(map[int]*state.ListLoader[models.Like]),
	}
}

// User returns the signed-in user, or nil before login.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetUser records the signed-in user. It is set once at login and updated
// in place after profile saves, never re-fetched per page.
func (s *Session) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

// IdleSince returns the time of the session's last request.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Events returns the home page's event list, created on first use.
func (s *Session) Events() *state.ListLoader[models.Event] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events == nil {
		s.events = state.NewListLoader(
			func(ctx context.Context) (models.Page[models.Event], error) {
				return s.API.ListEvents(ctx, s.currentEventQuery())
			},
			s.API.NextEvents,
		)
	}
	return s.events
}

func (s *Session) currentEventQuery() gateway.EventQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventsQuery
}

// SetEventQuery replaces the event list's filters. The caller reloads the
// list afterwards.
func (s *Session) SetEventQuery(q gateway.EventQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventsQuery = q
	s.eventsFiltered = true
}

// ResetEventQuery clears the event list's filters.
func (s *Session) ResetEventQuery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventsQuery = gateway.EventQuery{}
	s.eventsFiltered = false
}

// EventsFiltered reports whether any event filter is active.
func (s *Session) EventsFiltered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventsFiltered
}

// BrowseGallery returns the all-photos page state, created on first use.
func (s *Session) BrowseGallery() *state.Gallery {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browse == nil {
		s.browse = state.NewGallery(s.API, gateway.PhotoQuery{})
	}
	return s.browse
}

// ActivityGallery returns the my-clicks page state, scoped to the signed-in
// user's interactions.
func (s *Session) ActivityGallery() *state.Gallery {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activity == nil {
		var userID int
		if s.user != nil {
			userID = s.user.UserID
		}
		s.activity = state.NewGallery(s.API, gateway.PhotoQuery{UserID: userID})
	}
	return s.activity
}

// EventGallery returns the photo grid state for one event's detail page.
func (s *Session) EventGallery(eventID int) *state.Gallery {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.eventGalleries[eventID]
	if !ok {
		g = state.NewGallery(s.API, gateway.PhotoQuery{EventID: eventID})
		s.eventGalleries[eventID] = g
	}
	return g
}

// ProfileEditor returns the profile page's draft editor, or nil if not
// started.
func (s *Session) ProfileEditor() *state.DraftEditor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// SetProfileEditor installs a fresh profile editor, replacing any previous
// one.
func (s *Session) SetProfileEditor(e *state.DraftEditor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = e
}

// EventEditor returns the draft editor for one event's settings page, or
// nil if not started.
func (s *Session) EventEditor(eventID int) *state.DraftEditor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventEditors[eventID]
}

// SetEventEditor installs a fresh editor for the given event.
func (s *Session) SetEventEditor(eventID int, e *state.DraftEditor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventEditors[eventID] = e
}

// UploadBatch returns the staged upload batch for an event, created on
// first use.
func (s *Session) UploadBatch(eventID int) *state.UploadBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.uploads[eventID]
	if !ok || b.Submitted() {
		var tagger state.Tagger
		if s.tagger != nil {
			tagger = s.tagger
		}
		b = state.NewUploadBatch(s.API, tagger, eventID)
		s.uploads[eventID] = b
	}
	return b
}

// DropUploadBatch discards an event's staged uploads.
func (s *Session) DropUploadBatch(eventID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, eventID)
}

// Comments returns the comment feed state for one photo, newest first,
// created on first use.
func (s *Session) Comments(photoID int) *state.ListLoader[models.Comment] {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.comments[photoID]
	if !ok {
		l = state.NewListLoader(
			func(ctx context.Context) (models.Page[models.Comment], error) {
				return s.API.ListComments(ctx, gateway.FeedQuery{PhotoID: photoID})
			},
			s.API.NextComments,
		)
		s.comments[photoID] = l
	}
	return l
}

// Likes returns the like feed state for one photo, newest first, created
// on first use.
func (s *Session) Likes(photoID int) *state.ListLoader[models.Like] {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.likes[photoID]
	if !ok {
		l = state.NewListLoader(
			func(ctx context.Context) (models.Page[models.Like], error) {
				return s.API.ListLikes(ctx, gateway.FeedQuery{PhotoID: photoID})
			},
			s.API.NextLikes,
		)
		s.likes[photoID] = l
	}
	return l
}

// ============================================
// Manager
// ============================================

// Manager issues session tokens and keeps the live sessions in memory,
// optionally persisting each session's backend cookies in Redis.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	secret     []byte
	ttl        time.Duration
	apiBase    string
	taggingURL string
	store      *Store
}

// NewManager creates a session manager. store may be nil, in which case
// sessions do not survive a restart.
func NewManager(apiBase, taggingURL, secret string, ttl time.Duration, store *Store) *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		secret:     []byte(secret),
		ttl:        ttl,
		apiBase:    apiBase,
		taggingURL: taggingURL,
		store:      store,
	}
}

// Create starts a fresh session with its own backend client and returns it
// with its signed token.
func (m *Manager) Create() (*Session, string, error) {
	api, err := gateway.NewClient(m.apiBase)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create API client: %w", err)
	}

	var tagger *tagging.Client
	if m.taggingURL != "" {
		tagger = tagging.New(m.taggingURL)
	}

	sid := uuid.New().String()
	token, err := m.signToken(sid)
	if err != nil {
		return nil, "", err
	}

	sess := newSession(sid, api, tagger)

	m.mu.Lock()
	m.sessions[sid] = sess
	m.mu.Unlock()

	log.Printf("[Session] ✅ Session created: id=%s", sid)
	return sess, token, nil
}

// Get resolves a token to its live session. If the process restarted and
// the session's cookies are in Redis, the session is rebuilt from them.
func (m *Manager) Get(ctx context.Context, token string) (*Session, error) {
	sid, err := m.parseToken(token)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	sess, ok := m.sessions[sid]
	m.mu.RUnlock()
	if ok {
		sess.touch()
		return sess, nil
	}

	if m.store == nil {
		return nil, ErrSessionNotFound
	}

	cookies, err := m.store.LoadCookies(ctx, sid)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	api, err := gateway.NewClient(m.apiBase)
	if err != nil {
		return nil, err
	}
	api.SetCookies(cookies)

	var tagger *tagging.Client
	if m.taggingURL != "" {
		tagger = tagging.New(m.taggingURL)
	}

	sess = newSession(sid, api, tagger)

	m.mu.Lock()
	m.sessions[sid] = sess
	m.mu.Unlock()

	log.Printf("[Session] ♻️ Session restored from Redis: id=%s", sid)
	return sess, nil
}

// Persist writes a session's backend cookies to Redis. Call after any
// request that changes them, login above all.
func (m *Manager) Persist(ctx context.Context, sess *Session) error {
	if m.store == nil {
		return nil
	}
	return m.store.SaveCookies(ctx, sess.ID, sess.API.Cookies(), m.ttl)
}

// Invalidate drops a session from memory and Redis.
func (m *Manager) Invalidate(ctx context.Context, sess *Session) {
	m.mu.Lock()
	delete(m.sessions, sess.ID)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.DeleteCookies(ctx, sess.ID); err != nil {
			log.Printf("[Session] ⚠️ Failed to delete session from Redis: %v", err)
		}
	}
	log.Printf("[Session] Session invalidated: id=%s", sess.ID)
}

// Sweep drops sessions idle longer than the TTL and returns how many were
// removed.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for sid, sess := range m.sessions {
		if sess.IdleSince().Before(cutoff) {
			delete(m.sessions, sid)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) signToken(sid string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sid,
		"exp": time.Now().Add(m.ttl).Unix(),
		"iat": time.Now().Unix(),
	})
	return token.SignedString(m.secret)
}

func (m *Manager) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sid, ok := claims["sub"].(string)
	if !ok {
		return "", ErrInvalidToken
	}
	return sid, nil
}
