package repository

import (
	"context"

	"telegram-shop-bot/internal/domain/model"
)

// SessionRepository maps a user id to exactly one active session. Get returns
// domain.ErrNotFound for users that never interacted; callers go through the
// session usecase, which turns that into a fresh default session.
type SessionRepository interface {
	Get(ctx context.Context, userID int64) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, userID int64) error
}
