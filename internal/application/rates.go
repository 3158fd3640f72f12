package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"
)

const (
	keyEditingRate = "editing"
	keyRatesMsg    = "ratesMsg"
)

// rateFields is the closed set of editable exchange-rate fields. The field
// name doubles as the store key and the action suffix.
var rateFields = []string{"usd", "eur", "gold"}

func validRateField(f string) bool {
	for _, known := range rateFields {
		if f == known {
			return true
		}
	}
	return false
}

func (e *Engine) startAdminRates(ctx context.Context, sess *model.Session) error {
	current, err := e.catalog.Rates(ctx)
	if err != nil {
		return err
	}
	sess.StartFlow(model.FlowAdminRates, model.StepRatesHub)
	if err := e.render.Send(ctx, sess, ratesHubText(current, sess.Data), e.ratesMenu()); err != nil {
		return err
	}
	sess.Data[keyRatesMsg] = strconv.Itoa(e.render.LastMessageID(sess))
	return nil
}

func (e *Engine) handleAdminRates(ctx context.Context, sess *model.Session, ev Event) error {
	switch sess.Step {
	case model.StepRatesHub:
		if ev.Kind != EventAction {
			return e.notExpected(ctx, sess)
		}
		switch {
		case strings.HasPrefix(ev.Action, PrefixRate):
			field := strings.TrimPrefix(ev.Action, PrefixRate)
			if !validRateField(field) {
				return e.notExpected(ctx, sess)
			}
			sess.Data[keyEditingRate] = field
			sess.Step = model.StepRatesValue
			return e.render.Send(ctx, sess, fmt.Sprintf("New %s rate:", strings.ToUpper(field)), rows(cancelRow()))
		case ev.Action == ActRatesSave:
			return e.ratesSave(ctx, sess)
		}

	case model.StepRatesValue:
		if ev.Kind == EventText {
			value, err := parseAmount(ev.Text)
			if err != nil {
				return e.reject(ctx, sess, "Send the rate as a whole number.")
			}
			field := sess.Data[keyEditingRate]
			sess.Data[field] = strconv.FormatInt(value, 10)
			delete(sess.Data, keyEditingRate)
			sess.Step = model.StepRatesHub
			return e.ratesUpdateHub(ctx, sess)
		}
	}
	return e.notExpected(ctx, sess)
}

func (e *Engine) ratesUpdateHub(ctx context.Context, sess *model.Session) error {
	current, err := e.catalog.Rates(ctx)
	if err != nil {
		return err
	}
	id, _ := strconv.Atoi(sess.Data[keyRatesMsg])
	if id == 0 {
		if err := e.render.Send(ctx, sess, ratesHubText(current, sess.Data), e.ratesMenu()); err != nil {
			return err
		}
		sess.Data[keyRatesMsg] = strconv.Itoa(e.render.LastMessageID(sess))
		return nil
	}
	before := e.render.LastMessageID(sess)
	if err := e.render.Edit(ctx, sess, id, ratesHubText(current, sess.Data), e.ratesMenu()); err != nil {
		return err
	}
	if after := e.render.LastMessageID(sess); after != before {
		sess.Data[keyRatesMsg] = strconv.Itoa(after)
	}
	return nil
}

// ratesSave merges only the fields the admin actually edited; untouched fields
// keep their stored values.
func (e *Engine) ratesSave(ctx context.Context, sess *model.Session) error {
	partial := map[string]any{}
	for _, field := range rateFields {
		if raw, ok := sess.Data[field]; ok {
			value, _ := strconv.ParseInt(raw, 10, 64)
			partial[field] = value
		}
	}
	if len(partial) == 0 {
		return e.reject(ctx, sess, "Nothing changed yet — pick a rate to edit first.")
	}
	merged, err := e.catalog.SaveRates(ctx, partial)
	if err != nil {
		return err
	}
	e.finish(ctx, sess, "completed", fmt.Sprintf(
		"💱 Rates saved.\nUSD: %d · EUR: %d · Gold: %d", merged.USD, merged.EUR, merged.Gold))
	return nil
}

func ratesHubText(current model.Rates, pending map[string]string) string {
	var b strings.Builder
	b.WriteString("<b>Exchange rates</b>\n")
	fmt.Fprintf(&b, "USD: %s\n", rateLine(current.USD, pending["usd"]))
	fmt.Fprintf(&b, "EUR: %s\n", rateLine(current.EUR, pending["eur"]))
	fmt.Fprintf(&b, "Gold: %s\n", rateLine(current.Gold, pending["gold"]))
	b.WriteString("\nEdit a rate, then save.")
	return b.String()
}

func rateLine(stored int64, pending string) string {
	if pending != "" {
		return fmt.Sprintf("%d → <b>%s</b>", stored, pending)
	}
	if stored == 0 {
		return "not set"
	}
	return strconv.FormatInt(stored, 10)
}

func (e *Engine) ratesMenu() [][]adapter.Button {
	return rows(
		row(btn("💵 USD", PrefixRate+"usd"), btn("💶 EUR", PrefixRate+"eur"), btn("🥇 Gold", PrefixRate+"gold")),
		row(btn("💾 Save", ActRatesSave)),
		cancelRow(),
	)
}
