package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"
)

func btn(text, data string) adapter.Button { return adapter.Button{Text: text, Data: data} }

func row(buttons ...adapter.Button) []adapter.Button { return buttons }

func rows(r ...[]adapter.Button) [][]adapter.Button { return r }

func cancelRow() []adapter.Button { return row(btn("✖️ Cancel", ActCancel)) }

// formatMoney renders an amount with space-grouped thousands.
func formatMoney(n int64) string {
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String() + " so'm"
}

func (e *Engine) mainMenu(userID int64) [][]adapter.Button {
	menu := rows(
		row(btn("🛍 Buy", ActMenuPurchase), btn("📦 Products", ActMenuProducts)),
		row(btn("📰 Blog", ActMenuBlogs), btn("⭐️ Feedback", ActMenuFeedback)),
	)
	if e.isAdmin(userID) {
		menu = append(menu,
			row(btn("➕ Product", ActAdminAddProduct), btn("✍️ Blog post", ActAdminAddBlog)),
			row(btn("💱 Rates", ActAdminRates), btn("🗂 Categories", ActAdminCategories)),
			row(btn("💬 Feedback log", ActAdminListFeedback)),
		)
	}
	return menu
}

// handleMenuAction routes global menu entries. These work from any flow and
// any step: starting a flow discards whatever was in progress.
func (e *Engine) handleMenuAction(ctx context.Context, sess *model.Session, ev Event) (bool, error) {
	switch ev.Action {
	case ActMenuMain:
		fresh := e.sessions.Reset(ctx, sess)
		*sess = *fresh
		e.say(ctx, sess.UserID, greeting(ev), e.mainMenu(sess.UserID))
		return true, nil
	case ActMenuProducts:
		return true, e.listProducts(ctx, sess)
	case ActMenuBlogs:
		return true, e.listBlogs(ctx, sess)
	case ActMenuPurchase:
		return true, e.startPurchase(ctx, sess)
	case ActMenuFeedback:
		return true, e.startFeedback(ctx, sess)
	case ActAdminAddProduct, ActAdminAddBlog, ActAdminRates, ActAdminCategories, ActAdminListFeedback:
		if !e.isAdmin(sess.UserID) {
			e.log.Warn().Int64("user_id", sess.UserID).Str("action", ev.Action).Msg("admin action denied")
			e.say(ctx, sess.UserID, "This action is for administrators only.", nil)
			return true, nil
		}
		switch ev.Action {
		case ActAdminAddProduct:
			return true, e.startAdminProduct(ctx, sess)
		case ActAdminAddBlog:
			return true, e.startAdminBlog(ctx, sess)
		case ActAdminRates:
			return true, e.startAdminRates(ctx, sess)
		case ActAdminCategories:
			return true, e.startAdminCategories(ctx, sess)
		default:
			return true, e.listFeedback(ctx, sess)
		}
	}
	return false, nil
}

func greeting(ev Event) string {
	name := ev.FirstName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hello, %s! 👋\nBrowse the catalog, read the blog, or leave feedback.", name)
}

func (e *Engine) listProducts(ctx context.Context, sess *model.Session) error {
	products, err := e.catalog.Products(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		e.say(ctx, sess.UserID, "The catalog is empty for now.", nil)
		return nil
	}
	var b strings.Builder
	b.WriteString("<b>Catalog</b>\n")
	for _, p := range products {
		fmt.Fprintf(&b, "\n• <b>%s</b> — %s\n  %s\n", p.Name, formatMoney(p.Price), p.Description)
	}
	e.say(ctx, sess.UserID, b.String(), rows(row(btn("🛍 Buy", ActMenuPurchase))))
	return nil
}

func (e *Engine) listBlogs(ctx context.Context, sess *model.Session) error {
	blogs, err := e.catalog.Blogs(ctx)
	if err != nil {
		return err
	}
	if len(blogs) == 0 {
		e.say(ctx, sess.UserID, "No posts yet — check back soon.", nil)
		return nil
	}
	var b strings.Builder
	b.WriteString("<b>Blog</b>\n")
	for _, blog := range blogs {
		fmt.Fprintf(&b, "\n📰 <b>%s</b> (%s, %d min)\n%s\n", blog.Title, blog.Category, blog.ReadTime, blog.Description)
	}
	e.say(ctx, sess.UserID, b.String(), nil)
	return nil
}

// listFeedback shows the collected feedback records to an administrator.
func (e *Engine) listFeedback(ctx context.Context, sess *model.Session) error {
	items, err := e.catalog.Feedbacks(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		e.say(ctx, sess.UserID, "No feedback collected yet.", nil)
		return nil
	}
	var b strings.Builder
	b.WriteString("<b>Feedback</b>\n")
	for _, f := range items {
		fmt.Fprintf(&b, "\n%s %s — %s\n", strings.Repeat("⭐️", f.Rating), f.Name, f.CreatedAt.Format("2006-01-02"))
		if f.Text != "" {
			b.WriteString(f.Text + "\n")
		}
	}
	e.say(ctx, sess.UserID, b.String(), nil)
	return nil
}
