package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"homeserve/models"

	"github.com/go-redis/redis/v8"
)

// sessionTTL bounds how long a pre-booking session stays resumable.
const sessionTTL = 10 * time.Minute

// Session is the cached state of a customer's pre-booking flow: the package
// they are configuring and the availability they last saw.
type Session struct {
	SessionID    string                       `json:"session_id"`
	UserID       string                       `json:"user_id"`
	PackageID    string                       `json:"package_id"`
	Candidates   []string                     `json:"candidate_provider_ids"`
	Availability *models.AvailableSlotsResult `json:"availability,omitempty"`
	CreatedAt    time.Time                    `json:"created_at"`
}

// SessionStore keeps pre-booking sessions in Redis.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore wraps the injected Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save caches the session under its id with the standard TTL.
func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.SessionID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache booking session: %w", err)
	}
	return nil
}

// Get loads a session; a missing or expired session returns redis.Nil.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

// Delete drops a session; deleting a missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

func sessionKey(id string) string {
	return "booking:session:" + id
}
