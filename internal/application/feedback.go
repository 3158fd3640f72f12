package application

import (
	"context"
	"strconv"
	"strings"

	"telegram-shop-bot/internal/domain/model"
)

const keyRating = "rating"

func (e *Engine) startFeedback(ctx context.Context, sess *model.Session) error {
	sess.StartFlow(model.FlowFeedback, model.StepRating)
	stars := row(
		btn("1⭐", PrefixRating+"1"),
		btn("2⭐", PrefixRating+"2"),
		btn("3⭐", PrefixRating+"3"),
		btn("4⭐", PrefixRating+"4"),
		btn("5⭐", PrefixRating+"5"),
	)
	return e.render.Send(ctx, sess, "How would you rate us?", rows(stars, cancelRow()))
}

func (e *Engine) handleFeedback(ctx context.Context, sess *model.Session, ev Event) error {
	switch sess.Step {
	case model.StepRating:
		var input string
		switch {
		case ev.Kind == EventAction && strings.HasPrefix(ev.Action, PrefixRating):
			input = strings.TrimPrefix(ev.Action, PrefixRating)
		case ev.Kind == EventText:
			input = ev.Text
		default:
			return e.notExpected(ctx, sess)
		}
		rating, err := parseRating(input)
		if err != nil {
			return e.reject(ctx, sess, "Ratings go from 1 to 5.")
		}
		sess.Data[keyRating] = strconv.Itoa(rating)
		sess.Step = model.StepFeedbackText
		return e.render.Send(ctx, sess,
			"Thanks! Add a short comment, or skip.",
			rows(row(btn("Skip", ActFeedbackSkip)), cancelRow()))

	case model.StepFeedbackText:
		var text string
		switch {
		case ev.Kind == EventAction && ev.Action == ActFeedbackSkip:
			text = ""
		case ev.Kind == EventText:
			text = strings.TrimSpace(ev.Text)
		default:
			return e.notExpected(ctx, sess)
		}
		rating, _ := strconv.Atoi(sess.Data[keyRating])
		if _, err := e.catalog.SaveFeedback(ctx, model.Feedback{
			Name:   displayName(ev),
			Rating: rating,
			Text:   text,
		}); err != nil {
			return err
		}
		e.finish(ctx, sess, "completed", "🙏 Thank you for the feedback!")
		return nil
	}
	return e.notExpected(ctx, sess)
}
