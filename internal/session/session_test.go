package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/gateway"
	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager("http://localhost:8000", "", "test-secret", time.Hour, nil)
}

func TestManager_CreateAndGet(t *testing.T) {
	m := newTestManager(t)

	sess, token, err := m.Create()
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, sess.API)
	assert.Nil(t, sess.User())

	got, err := m.Get(context.Background(), token)
	assert.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestManager_GetRejectsGarbageToken(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Get(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_GetRejectsWrongSecret(t *testing.T) {
	m := newTestManager(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "some-session",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := forged.SignedString([]byte("other-secret"))
	assert.NoError(t, err)

	_, err = m.Get(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_UnknownSessionWithoutStore(t *testing.T) {
	m := newTestManager(t)

	sess, token, err := m.Create()
	assert.NoError(t, err)

	m.Invalidate(context.Background(), sess)

	_, err = m.Get(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_SweepDropsIdleSessions(t *testing.T) {
	m := NewManager("http://localhost:8000", "", "test-secret", 10*time.Millisecond, nil)

	stale, _, err := m.Create()
	assert.NoError(t, err)
	fresh, _, err := m.Create()
	assert.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	fresh.touch()

	removed := m.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.Count())

	// The stale session is gone, the fresh one stays.
	m.mu.RLock()
	_, staleOK := m.sessions[stale.ID]
	_, freshOK := m.sessions[fresh.ID]
	m.mu.RUnlock()
	assert.False(t, staleOK)
	assert.True(t, freshOK)
}

func TestSession_UserIsSetOncePerSession(t *testing.T) {
	m := newTestManager(t)
	sess, _, err := m.Create()
	assert.NoError(t, err)

	u := &models.User{UserID: 4, Username: "asha"}
	sess.SetUser(u)
	assert.Same(t, u, sess.User())
}

func TestSession_PageStatesAreLazyAndStable(t *testing.T) {
	m := newTestManager(t)
	sess, _, err := m.Create()
	assert.NoError(t, err)

	assert.Same(t, sess.Events(), sess.Events())
	assert.Same(t, sess.BrowseGallery(), sess.BrowseGallery())
	assert.Same(t, sess.EventGallery(3), sess.EventGallery(3))
	assert.NotSame(t, sess.EventGallery(3), sess.EventGallery(4))
	assert.Same(t, sess.Comments(9), sess.Comments(9))
	assert.Same(t, sess.Likes(9), sess.Likes(9))
	assert.Same(t, sess.UploadBatch(3), sess.UploadBatch(3))
}

func TestSession_DropUploadBatchStartsFresh(t *testing.T) {
	m := newTestManager(t)
	sess, _, err := m.Create()
	assert.NoError(t, err)

	first := sess.UploadBatch(3)
	sess.DropUploadBatch(3)
	assert.NotSame(t, first, sess.UploadBatch(3))
}

func TestSession_EventQueryFilters(t *testing.T) {
	m := newTestManager(t)
	sess, _, err := m.Create()
	assert.NoError(t, err)

	assert.False(t, sess.EventsFiltered())

	sess.SetEventQuery(gateway.EventQuery{Search: "holi"})
	assert.True(t, sess.EventsFiltered())
	assert.Equal(t, "holi", sess.currentEventQuery().Search)

	sess.ResetEventQuery()
	assert.False(t, sess.EventsFiltered())
	assert.Empty(t, sess.currentEventQuery().Search)
}
