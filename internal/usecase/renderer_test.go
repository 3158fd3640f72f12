package usecase

import (
	"context"
	"testing"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/model"

	"github.com/rs/zerolog"
)

func TestRendererTracksSentMessages(t *testing.T) {
	t.Parallel()
	logger := zerolog.Nop()
	chat := &mockChat{}
	r := NewRenderer(chat, &logger)
	sess := model.NewSession(1)

	if err := r.Send(context.Background(), sess, "a", nil); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := r.Send(context.Background(), sess, "b", nil); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(sess.TrackedMessageIDs) != 2 {
		t.Fatalf("tracked = %v, want two ids", sess.TrackedMessageIDs)
	}
	if r.LastMessageID(sess) != sess.TrackedMessageIDs[1] {
		t.Fatal("LastMessageID disagrees with tail")
	}
}

func TestRendererEditFallsBackWhenMessageGone(t *testing.T) {
	t.Parallel()
	logger := zerolog.Nop()
	chat := &mockChat{EditErr: domain.ErrMessageGone}
	r := NewRenderer(chat, &logger)
	sess := model.NewSession(1)

	if err := r.Edit(context.Background(), sess, 42, "updated", nil); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if len(chat.Sent) != 1 || chat.Sent[0] != "updated" {
		t.Fatalf("expected fallback send, got %v", chat.Sent)
	}
	if len(sess.TrackedMessageIDs) != 1 {
		t.Fatalf("fallback message not tracked: %v", sess.TrackedMessageIDs)
	}
}

func TestSessionResetDeletesTracked(t *testing.T) {
	t.Parallel()
	logger := zerolog.Nop()
	chat := &mockChat{}

	repo := &stubSessionRepo{sessions: map[int64]*model.Session{}}
	uc := NewSessionUseCase(repo, chat, &logger)

	sess := model.NewSession(7)
	sess.StartFlow(model.FlowFeedback, model.StepRating)
	sess.Track(11)
	sess.Track(12)

	fresh := uc.Reset(context.Background(), sess)
	if len(chat.Deleted) != 2 {
		t.Fatalf("deleted = %v, want both tracked ids", chat.Deleted)
	}
	if !fresh.Idle() || len(fresh.TrackedMessageIDs) != 0 {
		t.Fatalf("fresh session not clean: %+v", fresh)
	}
}

type stubSessionRepo struct {
	sessions map[int64]*model.Session
}

func (r *stubSessionRepo) Get(_ context.Context, userID int64) (*model.Session, error) {
	s, ok := r.sessions[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (r *stubSessionRepo) Save(_ context.Context, sess *model.Session) error {
	r.sessions[sess.UserID] = sess
	return nil
}

func (r *stubSessionRepo) Delete(_ context.Context, userID int64) error {
	delete(r.sessions, userID)
	return nil
}
