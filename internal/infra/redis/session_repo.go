package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo keeps conversational sessions in Redis so a multi-instance
// deployment can share them. The TTL bounds how long an abandoned flow is
// kept; the default matches the config redis.ttl.
type SessionRepo struct {
	client *Client
	ttl    time.Duration
}

func NewSessionRepo(client *Client, ttl time.Duration) *SessionRepo {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepo{client: client, ttl: ttl}
}

func (s *SessionRepo) sessionKey(userID int64) string {
	return fmt.Sprintf("shop_session:%d", userID)
}

func (s *SessionRepo) Get(ctx context.Context, userID int64) (*model.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var sess model.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionRepo) Save(ctx context.Context, sess *model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.sessionKey(sess.UserID), data, s.ttl)
}

func (s *SessionRepo) Delete(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, s.sessionKey(userID))
}
