package application

import (
	"context"
	"strconv"
	"strings"

	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"
)

const (
	keyName        = "name"
	keyCategory    = "category"
	keyDescription = "description"
)

func (e *Engine) startAdminProduct(ctx context.Context, sess *model.Session) error {
	sess.StartFlow(model.FlowAdminProduct, model.StepProductName)
	return e.render.Send(ctx, sess, "New product. What's its name?", rows(cancelRow()))
}

func (e *Engine) handleAdminProduct(ctx context.Context, sess *model.Session, ev Event) error {
	switch sess.Step {
	case model.StepProductName:
		if ev.Kind == EventText && strings.TrimSpace(ev.Text) != "" {
			sess.Data[keyName] = strings.TrimSpace(ev.Text)
			sess.Step = model.StepProductPrice
			return e.render.Send(ctx, sess, "Price (so'm):", rows(cancelRow()))
		}

	case model.StepProductPrice:
		if ev.Kind == EventText {
			price, err := parseAmount(ev.Text)
			if err != nil {
				return e.reject(ctx, sess, "Send the price as a whole number, e.g. 125000.")
			}
			sess.Data[keyPrice] = strconv.FormatInt(price, 10)
			return e.productAskCategory(ctx, sess)
		}

	case model.StepProductCategory:
		if ev.Kind == EventAction && strings.HasPrefix(ev.Action, PrefixPickCategory) {
			id := strings.TrimPrefix(ev.Action, PrefixPickCategory)
			name, err := e.catalog.CategoryName(ctx, id)
			if err != nil {
				return e.reject(ctx, sess, "That category is gone — pick another one.")
			}
			sess.Data[keyCategory] = name
			sess.Step = model.StepProductDescription
			return e.render.Send(ctx, sess, "Short description:", rows(cancelRow()))
		}

	case model.StepProductDescription:
		if ev.Kind == EventText && strings.TrimSpace(ev.Text) != "" {
			sess.Data[keyDescription] = strings.TrimSpace(ev.Text)
			sess.Step = model.StepProductPhoto
			return e.render.Send(ctx, sess, "Send the product photo.", rows(cancelRow()))
		}

	case model.StepProductPhoto:
		if ev.Kind == EventPhoto {
			return e.productPublish(ctx, sess, ev.PhotoFileID)
		}
		if ev.Kind == EventText {
			return e.reject(ctx, sess, "I need a photo here.")
		}
	}
	return e.notExpected(ctx, sess)
}

func (e *Engine) productAskCategory(ctx context.Context, sess *model.Session) error {
	categories, err := e.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		e.say(ctx, sess.UserID, "No categories exist yet — create one first.", e.mainMenu(sess.UserID))
		e.finish(ctx, sess, "aborted", "")
		return nil
	}
	sess.Step = model.StepProductCategory
	menu := make([][]adapter.Button, 0, len(categories)+1)
	for _, c := range categories {
		menu = append(menu, row(btn(c.Name, PrefixPickCategory+c.ID)))
	}
	menu = append(menu, cancelRow())
	return e.render.Send(ctx, sess, "Pick a category:", menu)
}

func (e *Engine) productPublish(ctx context.Context, sess *model.Session, fileID string) error {
	photoURL, err := e.ingest.Ingest(ctx, fileID)
	if err != nil {
		return err
	}
	price, _ := strconv.ParseInt(sess.Data[keyPrice], 10, 64)
	if _, err := e.catalog.SaveProduct(ctx, model.Product{
		Name:        sess.Data[keyName],
		Price:       price,
		Category:    sess.Data[keyCategory],
		Description: sess.Data[keyDescription],
		PhotoURL:    photoURL,
	}); err != nil {
		return err
	}
	e.finish(ctx, sess, "completed", "✅ Product published.")
	return nil
}
