package application

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"
)

const keyCategoryID = "categoryId"

func (e *Engine) startAdminCategories(ctx context.Context, sess *model.Session) error {
	categories, err := e.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	sess.StartFlow(model.FlowAdminCategory, model.StepCategoryHub)
	return e.render.Send(ctx, sess, categoryHubText(categories), categoryHubMenu(categories))
}

func (e *Engine) handleAdminCategory(ctx context.Context, sess *model.Session, ev Event) error {
	switch sess.Step {
	case model.StepCategoryHub:
		if ev.Kind != EventAction {
			return e.notExpected(ctx, sess)
		}
		switch {
		case ev.Action == ActCategoryAdd:
			sess.Step = model.StepCategoryAdd
			return e.render.Send(ctx, sess, "Name for the new category:", rows(cancelRow()))

		case strings.HasPrefix(ev.Action, PrefixCatRename):
			id := strings.TrimPrefix(ev.Action, PrefixCatRename)
			if _, err := e.catalog.CategoryName(ctx, id); err != nil {
				return e.reject(ctx, sess, "That category no longer exists.")
			}
			sess.Data[keyCategoryID] = id
			sess.Step = model.StepCategoryRename
			return e.render.Send(ctx, sess, "New name:", rows(cancelRow()))

		case strings.HasPrefix(ev.Action, PrefixCatDelete):
			id := strings.TrimPrefix(ev.Action, PrefixCatDelete)
			name, err := e.catalog.CategoryName(ctx, id)
			if err != nil {
				return e.reject(ctx, sess, "That category no longer exists.")
			}
			sess.Data[keyCategoryID] = id
			sess.Step = model.StepCategoryConfirm
			return e.render.Send(ctx, sess,
				fmt.Sprintf("Delete category <b>%s</b>? Products keep their category label.", name),
				rows(row(btn("Yes, delete", ActCatDelYes), btn("No, keep it", ActCatDelNo)), cancelRow()))

		case strings.HasPrefix(ev.Action, PrefixAdminCat):
			id := strings.TrimPrefix(ev.Action, PrefixAdminCat)
			name, err := e.catalog.CategoryName(ctx, id)
			if err != nil {
				return e.reject(ctx, sess, "That category no longer exists.")
			}
			return e.render.Send(ctx, sess, fmt.Sprintf("Category <b>%s</b>:", name),
				rows(row(btn("✏️ Rename", PrefixCatRename+id), btn("🗑 Delete", PrefixCatDelete+id)), cancelRow()))
		}

	case model.StepCategoryAdd:
		if ev.Kind == EventText {
			return e.categoryAdd(ctx, sess, ev.Text)
		}

	case model.StepCategoryRename:
		if ev.Kind == EventText {
			name := strings.TrimSpace(ev.Text)
			if name == "" {
				return e.reject(ctx, sess, "The name can't be empty.")
			}
			if err := e.catalog.RenameCategory(ctx, sess.Data[keyCategoryID], name); err != nil {
				return err
			}
			e.finish(ctx, sess, "completed", fmt.Sprintf("✏️ Renamed to %s.", name))
			return nil
		}

	case model.StepCategoryConfirm:
		if ev.Kind != EventAction {
			return e.notExpected(ctx, sess)
		}
		switch ev.Action {
		case ActCatDelYes:
			if err := e.catalog.DeleteCategory(ctx, sess.Data[keyCategoryID]); err != nil {
				return err
			}
			e.finish(ctx, sess, "completed", "🗑 Category deleted.")
			return nil
		case ActCatDelNo:
			e.finish(ctx, sess, "cancelled", "Kept it.")
			return nil
		}
	}
	return e.notExpected(ctx, sess)
}

func (e *Engine) categoryAdd(ctx context.Context, sess *model.Session, input string) error {
	name := strings.TrimSpace(input)
	if name == "" {
		return e.reject(ctx, sess, "The name can't be empty.")
	}
	id := slugify(name)
	if id == "" {
		return e.reject(ctx, sess, "That name has no usable characters — try another.")
	}
	if _, err := e.catalog.CategoryName(ctx, id); err == nil {
		return e.reject(ctx, sess, "A category with that name already exists.")
	}
	if err := e.catalog.AddCategory(ctx, id, name); err != nil {
		return err
	}
	e.finish(ctx, sess, "completed", fmt.Sprintf("🗂 Category %s created.", name))
	return nil
}

// slugify derives a stable store key from a display name.
func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func categoryHubText(categories []model.Category) string {
	if len(categories) == 0 {
		return "No categories yet."
	}
	var b strings.Builder
	b.WriteString("<b>Categories</b>\n")
	for _, c := range categories {
		b.WriteString("\n• " + c.Name)
	}
	return b.String()
}

func categoryHubMenu(categories []model.Category) [][]adapter.Button {
	menu := make([][]adapter.Button, 0, len(categories)+2)
	for _, c := range categories {
		menu = append(menu, row(btn(c.Name, PrefixAdminCat+c.ID)))
	}
	menu = append(menu, row(btn("➕ Add category", ActCategoryAdd)), cancelRow())
	return menu
}
