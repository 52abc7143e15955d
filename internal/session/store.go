package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session is the server-side record behind one issued access token. The
// token carries the session id; logout deletes the record, which revokes
// the token before its JWT expiry.
type Session struct {
	UserID    string `json:"uid"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(id string) string { return fmt.Sprintf("admin:sess:%s", id) }

func (s *Store) Create(ctx context.Context, id, userID, role string) error {
	now := time.Now()
	b, _ := json.Marshal(Session{
		UserID:    userID,
		Role:      role,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	})
	return s.rdb.Set(ctx, key(id), b, s.ttl).Err()
}

func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Alive reports whether the session still exists (i.e. not logged out).
func (s *Store) Alive(ctx context.Context, id string) bool {
	n, err := s.rdb.Exists(ctx, key(id)).Result()
	return err == nil && n > 0
}

func (s *Store) Delete(ctx context.Context, id string) {
	_ = s.rdb.Del(ctx, key(id)).Err()
}
