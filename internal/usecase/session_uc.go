package usecase

import (
	"context"

	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"
	"telegram-shop-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// SessionUseCase owns the user-to-session mapping and the reset contract:
// after Reset the user has a fresh default session and every previously
// tracked prompt has been deleted on a best-effort basis.
type SessionUseCase struct {
	sessions repository.SessionRepository
	chat     adapter.ChatClient
	log      *zerolog.Logger
}

func NewSessionUseCase(sessions repository.SessionRepository, chat adapter.ChatClient, logger *zerolog.Logger) *SessionUseCase {
	return &SessionUseCase{sessions: sessions, chat: chat, log: logger}
}

// GetOrCreate never fails: a repository error is logged and answered with a
// fresh default session so the conversation can always proceed.
func (u *SessionUseCase) GetOrCreate(ctx context.Context, userID int64) *model.Session {
	sess, err := u.sessions.Get(ctx, userID)
	if err == nil {
		return sess
	}
	sess = model.NewSession(userID)
	if err := u.sessions.Save(ctx, sess); err != nil {
		u.log.Warn().Err(err).Int64("user_id", userID).Msg("save fresh session")
	}
	return sess
}

func (u *SessionUseCase) Save(ctx context.Context, sess *model.Session) error {
	return u.sessions.Save(ctx, sess)
}

// Reset deletes every tracked message (failures swallowed — message retention
// is cosmetic) and replaces the session with a fresh default.
func (u *SessionUseCase) Reset(ctx context.Context, sess *model.Session) *model.Session {
	for _, id := range sess.TrackedMessageIDs {
		if err := u.chat.DeleteMessage(ctx, sess.UserID, id); err != nil {
			u.log.Debug().Err(err).Int64("user_id", sess.UserID).Int("message_id", id).Msg("cleanup delete failed")
		}
	}
	fresh := model.NewSession(sess.UserID)
	if err := u.sessions.Save(ctx, fresh); err != nil {
		u.log.Warn().Err(err).Int64("user_id", sess.UserID).Msg("save reset session")
	}
	return fresh
}
