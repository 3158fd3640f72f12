package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-shop-bot/internal/application"
	"telegram-shop-bot/internal/config"
	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/ports/adapter"
	red "telegram-shop-bot/internal/infra/redis"
	"telegram-shop-bot/internal/infra/worker"
)

// Bot wraps tgbotapi: it polls updates, normalizes them into application
// events and dispatches them on a keyed pool so same-user events stay ordered.
// It also implements adapter.ChatClient and adapter.FileResolver for the
// outbound direction.
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	rateLimiter *red.RateLimiter // nil without redis
	log         *zerolog.Logger

	cancelPolling context.CancelFunc
}

var (
	_ adapter.ChatClient   = (*Bot)(nil)
	_ adapter.FileResolver = (*Bot)(nil)
)

func NewBot(cfg *config.BotConfig, rateLimiter *red.RateLimiter, logger *zerolog.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, cfg: cfg, rateLimiter: rateLimiter, log: logger}, nil
}

// ProbeReviewChannel verifies at startup that the bot can see the staff review
// channel; a misconfigured id otherwise only surfaces on the first order.
func (b *Bot) ProbeReviewChannel(ctx context.Context) {
	if b.cfg.ReviewChannelID == 0 {
		b.log.Info().Msg("no review channel configured, receipts stay in the store only")
		return
	}
	chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: b.cfg.ReviewChannelID},
	})
	if err != nil {
		b.log.Warn().Err(err).Int64("channel_id", b.cfg.ReviewChannelID).Msg("review channel unreachable")
		return
	}
	b.log.Info().Str("channel", chat.Title).Msg("review channel ok")
}

// StartPolling pulls updates until ctx is canceled, feeding handle through the
// keyed worker pool.
func (b *Bot) StartPolling(ctx context.Context, handle func(context.Context, application.Event)) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	b.cancelPolling = cancel

	pool := worker.NewKeyedPool(b.cfg.Workers, b.log)
	pool.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			pool.Stop()
			return ctx.Err()
		case update := <-updates:
			ev, ok := b.eventFrom(ctx, update)
			if !ok {
				continue
			}
			if !b.allow(ctx, ev) {
				continue
			}
			if err := pool.Submit(ev.UserID, func(ctx context.Context) { handle(ctx, ev) }); err != nil {
				b.log.Warn().Err(err).Int64("user_id", ev.UserID).Msg("event dropped")
			}
		}
	}
}

func (b *Bot) StopPolling() {
	if b.cancelPolling != nil {
		b.cancelPolling()
	}
}

// eventFrom flattens a Telegram update into an application event.
func (b *Bot) eventFrom(ctx context.Context, update tgbotapi.Update) (application.Event, bool) {
	if q := update.CallbackQuery; q != nil && q.From != nil {
		// stop the client-side spinner right away
		if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
			b.log.Debug().Err(err).Msg("callback ack failed")
		}
		return application.Event{
			UserID:    q.From.ID,
			Username:  q.From.UserName,
			FirstName: q.From.FirstName,
			Kind:      application.EventAction,
			Action:    strings.TrimSpace(q.Data),
		}, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil || !msg.Chat.IsPrivate() {
		return application.Event{}, false
	}
	ev := application.Event{
		UserID:    msg.From.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
	}

	if len(msg.Photo) > 0 {
		ev.Kind = application.EventPhoto
		ev.PhotoFileID = msg.Photo[len(msg.Photo)-1].FileID // largest size is last
		return ev, true
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return application.Event{}, false
	}
	if text == "/start" || text == "/menu" {
		ev.Kind = application.EventAction
		ev.Action = application.ActMenuMain
		return ev, true
	}
	ev.Kind = application.EventText
	ev.Text = text
	return ev, true
}

func (b *Bot) allow(ctx context.Context, ev application.Event) bool {
	if b.rateLimiter == nil {
		return true
	}
	allowed, err := b.rateLimiter.Allow(ctx, red.UserEventKey(ev.UserID, string(ev.Kind)), 30, time.Minute)
	if err != nil {
		b.log.Warn().Err(err).Msg("rate limit check failed")
		return true
	}
	if !allowed {
		_, _ = b.SendText(ctx, ev.UserID, "Slow down a little — try again in a minute.", nil)
	}
	return allowed
}

// ----- adapter.ChatClient -----

func (b *Bot) SendText(ctx context.Context, chatID int64, text string, rows [][]adapter.Button) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if len(rows) > 0 {
		msg.ReplyMarkup = keyboard(rows)
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (b *Bot) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	msg.Caption = caption
	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (b *Bot) EditText(ctx context.Context, chatID int64, messageID int, text string, rows [][]adapter.Button) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if len(rows) > 0 {
		markup := keyboard(rows)
		edit.ReplyMarkup = &markup
	}
	_, err := b.api.Send(edit)
	if err == nil {
		return nil
	}
	reason := strings.ToLower(err.Error())
	if strings.Contains(reason, "message is not modified") {
		return nil
	}
	if strings.Contains(reason, "message to edit not found") || strings.Contains(reason, "message can't be edited") {
		return domain.ErrMessageGone
	}
	return err
}

func (b *Bot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

// ----- adapter.FileResolver -----

// FileURL resolves a file id to Telegram's temporary download URL.
func (b *Bot) FileURL(ctx context.Context, fileID string) (string, error) {
	return b.api.GetFileDirectURL(fileID)
}

func keyboard(rows [][]adapter.Button) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, r := range rows {
		if len(r) == 0 {
			continue
		}
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, btn := range r {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			switch {
			case btn.URL != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL))
			case btn.Data != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(label, btn.Data))
			default:
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(label, label))
			}
		}
		kbRows = append(kbRows, kbRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}
