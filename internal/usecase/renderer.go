package usecase

import (
	"context"
	"errors"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

// Renderer delivers outbound prompts and records their message ids against the
// session so the session store can clean them up on reset.
type Renderer struct {
	chat adapter.ChatClient
	log  *zerolog.Logger
}

func NewRenderer(chat adapter.ChatClient, logger *zerolog.Logger) *Renderer {
	return &Renderer{chat: chat, log: logger}
}

// Send delivers a new message and tracks its id on the session.
func (r *Renderer) Send(ctx context.Context, sess *model.Session, text string, rows [][]adapter.Button) error {
	id, err := r.chat.SendText(ctx, sess.UserID, text, rows)
	if err != nil {
		return err
	}
	sess.Track(id)
	return nil
}

// Edit updates a previously sent message in place. When the platform reports
// the message gone, it transparently falls back to sending a new one.
func (r *Renderer) Edit(ctx context.Context, sess *model.Session, messageID int, text string, rows [][]adapter.Button) error {
	err := r.chat.EditText(ctx, sess.UserID, messageID, text, rows)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMessageGone) {
		r.log.Debug().Int64("user_id", sess.UserID).Int("message_id", messageID).Msg("edit target gone, sending new message")
		return r.Send(ctx, sess, text, rows)
	}
	return err
}

// LastMessageID returns the most recently tracked message id, or 0.
func (r *Renderer) LastMessageID(sess *model.Session) int {
	if n := len(sess.TrackedMessageIDs); n > 0 {
		return sess.TrackedMessageIDs[n-1]
	}
	return 0
}
