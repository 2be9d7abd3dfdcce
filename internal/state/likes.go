package state

import (
	"context"
	"sync"

	"github.com/Bhavi-1266/AutumnAsssignmentIMG/internal/models"
)

// LikeToggle is the optimistic like state of one photo for one viewer. The
// flip is applied locally before the request goes out; the server response
// is authoritative (it wins races with other clients), and a failure rolls
// back to the captured pre-toggle state.
type LikeToggle struct {
	mu       sync.Mutex
	liked    bool
	count    int
	inFlight bool
}

func NewLikeToggle(liked bool, count int) *LikeToggle {
	return &LikeToggle{liked: liked, count: count}
}

// Toggle flips the state and runs call. It reports applied=false when a
// request for this photo is already in flight; the invocation is dropped so
// a double click cannot double-toggle.
func (t *LikeToggle) Toggle(ctx context.Context, call func(ctx context.Context) (*models.LikeStatus, error)) (bool, error) {
	t.mu.Lock()
	if t.inFlight {
		t.mu.Unlock()
		return false, nil
	}
	prevLiked, prevCount := t.liked, t.count
	t.liked = !t.liked
	if t.liked {
		t.count++
	} else {
		t.count--
	}
	t.inFlight = true
	t.mu.Unlock()

	status, err := call(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight = false
	if err != nil {
		t.liked, t.count = prevLiked, prevCount
		return true, err
	}
	t.liked, t.count = status.Liked, status.Likes
	return true, nil
}

// State returns the currently displayed liked flag and count.
func (t *LikeToggle) State() (liked bool, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.liked, t.count
}
