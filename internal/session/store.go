package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists the backend API cookies of each session in Redis, so a
// restarted process can pick sessions back up without forcing a re-login.
type Store struct {
	Client *redis.Client
}

// NewStore connects to Redis at the given URL.
func NewStore(redisURL string) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("[Redis] ✅ Connected to Redis")
	return &Store{Client: client}, nil
}

// Close releases the Redis connection.
func (s *Store) Close() {
	if s.Client != nil {
		s.Client.Close()
		log.Println("[Redis] Connection closed")
	}
}

// storedCookie is the subset of http.Cookie worth keeping across restarts.
type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Domain  string    `json:"domain,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// SaveCookies writes a session's backend cookies under its ID.
func (s *Store) SaveCookies(ctx context.Context, sessionID string, cookies []*http.Cookie, expiration time.Duration) error {
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: c.Expires,
		})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, "session:"+sessionID, data, expiration).Err()
}

// LoadCookies reads a session's backend cookies. A missing key returns
// redis.Nil.
func (s *Store) LoadCookies(ctx context.Context, sessionID string) ([]*http.Cookie, error) {
	data, err := s.Client.Get(ctx, "session:"+sessionID).Bytes()
	if err != nil {
		return nil, err
	}
	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: c.Expires,
		})
	}
	return cookies, nil
}

// DeleteCookies removes a session's persisted cookies.
func (s *Store) DeleteCookies(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, "session:"+sessionID).Err()
}
