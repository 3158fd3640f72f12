package memory

import (
	"context"
	"sync"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo is the single-instance session store: a mutex-guarded map for
// the life of the process. Multi-instance deployments swap in the Redis
// implementation behind the same port.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[int64]*model.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[int64]*model.Session)}
}

func (r *SessionRepo) Get(_ context.Context, userID int64) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(sess), nil
}

func (r *SessionRepo) Save(_ context.Context, sess *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.UserID] = clone(sess)
	return nil
}

// clone copies the session with value semantics, matching what the Redis
// implementation gets for free from JSON round-tripping.
func clone(sess *model.Session) *model.Session {
	cp := *sess
	cp.Data = make(map[string]string, len(sess.Data))
	for k, v := range sess.Data {
		cp.Data[k] = v
	}
	cp.Blocks = append([]model.Block(nil), sess.Blocks...)
	cp.TrackedMessageIDs = append([]int(nil), sess.TrackedMessageIDs...)
	return &cp
}

func (r *SessionRepo) Delete(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}
