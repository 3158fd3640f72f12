package application

import (
	"context"
	"strings"
	"time"

	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"
	"telegram-shop-bot/internal/domain/ports/repository"
	"telegram-shop-bot/internal/infra/metrics"
	"telegram-shop-bot/internal/infra/redis"
	"telegram-shop-bot/internal/usecase"

	"github.com/rs/zerolog"
)

const userLockTTL = 30 * time.Second

// Engine is the conversation state machine. It receives normalized events,
// loads the caller's session, routes to the active flow's handler and persists
// the session afterwards. One event is processed at a time per user; the
// dispatcher guarantees ordering in-process and the optional locker extends
// that guarantee across instances.
type Engine struct {
	sessions *usecase.SessionUseCase
	catalog  *usecase.CatalogUseCase
	ingest   *usecase.IngestUseCase
	render   *usecase.Renderer
	chat     adapter.ChatClient
	locker   repository.Locker // nil without redis

	admins          map[int64]struct{}
	reviewChannelID int64
	log             *zerolog.Logger
}

type EngineDeps struct {
	Sessions *usecase.SessionUseCase
	Catalog  *usecase.CatalogUseCase
	Ingest   *usecase.IngestUseCase
	Render   *usecase.Renderer
	Chat     adapter.ChatClient
	Locker   repository.Locker
}

func NewEngine(deps EngineDeps, adminIDs []int64, reviewChannelID int64, logger *zerolog.Logger) *Engine {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Engine{
		sessions:        deps.Sessions,
		catalog:         deps.Catalog,
		ingest:          deps.Ingest,
		render:          deps.Render,
		chat:            deps.Chat,
		locker:          deps.Locker,
		admins:          admins,
		reviewChannelID: reviewChannelID,
		log:             logger,
	}
}

func (e *Engine) isAdmin(userID int64) bool {
	_, ok := e.admins[userID]
	return ok
}

// Handle processes one inbound event end to end. It never returns an error to
// the transport: faults are logged and answered with an apology so a single
// bad event cannot wedge the update loop.
func (e *Engine) Handle(ctx context.Context, ev Event) {
	metrics.Event(string(ev.Kind))

	if e.locker != nil {
		key := redis.UserLockKey(ev.UserID)
		token, err := e.locker.TryLock(ctx, key, userLockTTL)
		if err != nil {
			e.log.Debug().Err(err).Int64("user_id", ev.UserID).Msg("user busy, dropping event")
			e.say(ctx, ev.UserID, "One moment — still working on your previous message.", nil)
			return
		}
		defer func() {
			if err := e.locker.Unlock(ctx, key, token); err != nil {
				e.log.Warn().Err(err).Int64("user_id", ev.UserID).Msg("unlock failed")
			}
		}()
	}

	sess := e.sessions.GetOrCreate(ctx, ev.UserID)

	if isCancel(ev) {
		e.cancel(ctx, sess)
		return
	}

	if err := e.dispatch(ctx, sess, ev); err != nil {
		e.log.Error().Err(err).
			Int64("user_id", ev.UserID).
			Str("flow", string(sess.Flow)).
			Str("step", string(sess.Step)).
			Msg("event handling failed")
		e.say(ctx, ev.UserID, "Something went wrong, please try again.", nil)
	}

	if err := e.sessions.Save(ctx, sess); err != nil {
		e.log.Error().Err(err).Int64("user_id", ev.UserID).Msg("save session")
	}
}

// isCancel matches the global cancel shortcut: the CANCEL action or the bare
// word "cancel" in any letter case, regardless of flow or step.
func isCancel(ev Event) bool {
	if ev.Kind == EventAction && ev.Action == ActCancel {
		return true
	}
	return ev.Kind == EventText && strings.EqualFold(strings.TrimSpace(ev.Text), "cancel")
}

// cancel resets the session and shows the main menu. Cancelling with nothing
// in progress is a harmless no-op apart from the menu refresh.
func (e *Engine) cancel(ctx context.Context, sess *model.Session) {
	if !sess.Idle() {
		metrics.FlowOutcome(string(sess.Flow), "cancelled")
	}
	fresh := e.sessions.Reset(ctx, sess)
	*sess = *fresh
	e.say(ctx, sess.UserID, "Cancelled. What would you like to do?", e.mainMenu(sess.UserID))
}

// finish completes a flow: records the outcome, wipes the session and its
// prompts, and confirms with a durable (untracked) message plus the main menu.
func (e *Engine) finish(ctx context.Context, sess *model.Session, outcome, confirmation string) {
	metrics.FlowOutcome(string(sess.Flow), outcome)
	fresh := e.sessions.Reset(ctx, sess)
	*sess = *fresh
	if confirmation != "" {
		e.say(ctx, sess.UserID, confirmation, e.mainMenu(sess.UserID))
	}
}

func (e *Engine) dispatch(ctx context.Context, sess *model.Session, ev Event) error {
	if ev.Kind == EventAction {
		if handled, err := e.handleMenuAction(ctx, sess, ev); handled {
			return err
		}
	}

	switch sess.Flow {
	case model.FlowPurchase:
		return e.handlePurchase(ctx, sess, ev)
	case model.FlowFeedback:
		return e.handleFeedback(ctx, sess, ev)
	case model.FlowAdminProduct:
		return e.handleAdminProduct(ctx, sess, ev)
	case model.FlowAdminBlog:
		return e.handleAdminBlog(ctx, sess, ev)
	case model.FlowAdminRates:
		return e.handleAdminRates(ctx, sess, ev)
	case model.FlowAdminCategory:
		return e.handleAdminCategory(ctx, sess, ev)
	default:
		return e.notExpected(ctx, sess)
	}
}

// notExpected answers an event no handler claimed. The session is left
// untouched so whatever prompt is pending stays authoritative.
func (e *Engine) notExpected(ctx context.Context, sess *model.Session) error {
	metrics.InputRejected(string(sess.Flow))
	e.say(ctx, sess.UserID, "That's not expected right now. Tap a button above, or type \"cancel\".", nil)
	return nil
}

// reject answers invalid input for the current step without advancing it.
func (e *Engine) reject(ctx context.Context, sess *model.Session, hint string) error {
	metrics.InputRejected(string(sess.Flow))
	return e.render.Send(ctx, sess, hint, rows(cancelRow()))
}

// say sends a message outside session tracking; it survives the next reset.
// Delivery failures are logged, not propagated.
func (e *Engine) say(ctx context.Context, chatID int64, text string, buttons [][]adapter.Button) {
	if _, err := e.chat.SendText(ctx, chatID, text, buttons); err != nil {
		e.log.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func displayName(ev Event) string {
	if ev.FirstName != "" {
		return ev.FirstName
	}
	if ev.Username != "" {
		return "@" + ev.Username
	}
	return "Anonymous"
}
