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
	keyTitle        = "title"
	keyReadTime     = "readTime"
	keyCover        = "cover"
	keyPendingBlock = "pendingBlock"
	keyPendingImage = "pendingImage"
	keyBuilderMsg   = "builderMsg"
)

// previewLimit caps the rendered preview; chat messages reject longer texts.
const previewLimit = 3500

func (e *Engine) startAdminBlog(ctx context.Context, sess *model.Session) error {
	sess.StartFlow(model.FlowAdminBlog, model.StepBlogTitle)
	return e.render.Send(ctx, sess, "New post. What's the title?", rows(cancelRow()))
}

func (e *Engine) handleAdminBlog(ctx context.Context, sess *model.Session, ev Event) error {
	switch sess.Step {
	case model.StepBlogTitle:
		if ev.Kind == EventText && strings.TrimSpace(ev.Text) != "" {
			sess.Data[keyTitle] = strings.TrimSpace(ev.Text)
			return e.blogAskCategory(ctx, sess)
		}

	case model.StepBlogCategory:
		if ev.Kind == EventAction && strings.HasPrefix(ev.Action, PrefixPickCategory) {
			id := strings.TrimPrefix(ev.Action, PrefixPickCategory)
			name, err := e.catalog.CategoryName(ctx, id)
			if err != nil {
				return e.reject(ctx, sess, "That category is gone — pick another one.")
			}
			sess.Data[keyCategory] = name
			sess.Step = model.StepBlogReadTime
			return e.render.Send(ctx, sess, "Estimated read time in minutes:", rows(cancelRow()))
		}

	case model.StepBlogReadTime:
		if ev.Kind == EventText {
			minutes, err := parseAmount(ev.Text)
			if err != nil {
				return e.reject(ctx, sess, "Send the read time as a whole number of minutes.")
			}
			sess.Data[keyReadTime] = strconv.FormatInt(minutes, 10)
			sess.Step = model.StepBlogDescription
			return e.render.Send(ctx, sess, "One-paragraph teaser:", rows(cancelRow()))
		}

	case model.StepBlogDescription:
		if ev.Kind == EventText && strings.TrimSpace(ev.Text) != "" {
			sess.Data[keyDescription] = strings.TrimSpace(ev.Text)
			sess.Step = model.StepBlogCover
			return e.render.Send(ctx, sess, "Send a cover image, or skip.",
				rows(row(btn("Skip", ActBlogSkipCover)), cancelRow()))
		}

	case model.StepBlogCover:
		if ev.Kind == EventPhoto {
			url, err := e.ingest.Ingest(ctx, ev.PhotoFileID)
			if err != nil {
				return err
			}
			sess.Data[keyCover] = url
			return e.blogOpenBuilder(ctx, sess)
		}
		if ev.Kind == EventAction && ev.Action == ActBlogSkipCover {
			return e.blogOpenBuilder(ctx, sess)
		}

	case model.StepBuilder:
		return e.blogBuilderAction(ctx, sess, ev)

	case model.StepBuilderInput:
		if ev.Kind == EventText {
			return e.blogBuilderText(ctx, sess, ev.Text)
		}

	case model.StepBuilderImage:
		if ev.Kind == EventPhoto {
			url, err := e.ingest.Ingest(ctx, ev.PhotoFileID)
			if err != nil {
				return err
			}
			sess.Data[keyPendingImage] = url
			sess.Step = model.StepBuilderCaption
			return e.render.Send(ctx, sess, "Caption for the image, or skip.",
				rows(row(btn("Skip", ActBlogSkipCaption)), cancelRow()))
		}

	case model.StepBuilderCaption:
		caption := ""
		switch {
		case ev.Kind == EventText:
			caption = strings.TrimSpace(ev.Text)
		case ev.Kind == EventAction && ev.Action == ActBlogSkipCaption:
		default:
			return e.notExpected(ctx, sess)
		}
		sess.AppendBlock(model.Block{Type: model.BlockImage, URL: sess.Data[keyPendingImage], Caption: caption})
		delete(sess.Data, keyPendingImage)
		sess.Step = model.StepBuilder
		return e.blogUpdateHub(ctx, sess)
	}
	return e.notExpected(ctx, sess)
}

func (e *Engine) blogAskCategory(ctx context.Context, sess *model.Session) error {
	categories, err := e.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		e.say(ctx, sess.UserID, "No categories exist yet — create one first.", e.mainMenu(sess.UserID))
		e.finish(ctx, sess, "aborted", "")
		return nil
	}
	sess.Step = model.StepBlogCategory
	menu := rows()
	for _, c := range categories {
		menu = append(menu, row(btn(c.Name, PrefixPickCategory+c.ID)))
	}
	menu = append(menu, cancelRow())
	return e.render.Send(ctx, sess, "Pick a category:", menu)
}

func (e *Engine) blogOpenBuilder(ctx context.Context, sess *model.Session) error {
	sess.Step = model.StepBuilder
	if err := e.render.Send(ctx, sess, e.builderText(sess), e.builderMenu()); err != nil {
		return err
	}
	sess.Data[keyBuilderMsg] = strconv.Itoa(e.render.LastMessageID(sess))
	return nil
}

// blogUpdateHub refreshes the builder panel in place, falling back to a new
// message when the old one can no longer be edited.
func (e *Engine) blogUpdateHub(ctx context.Context, sess *model.Session) error {
	id, _ := strconv.Atoi(sess.Data[keyBuilderMsg])
	if id == 0 {
		return e.blogOpenBuilder(ctx, sess)
	}
	before := e.render.LastMessageID(sess)
	if err := e.render.Edit(ctx, sess, id, e.builderText(sess), e.builderMenu()); err != nil {
		return err
	}
	if after := e.render.LastMessageID(sess); after != before {
		sess.Data[keyBuilderMsg] = strconv.Itoa(after)
	}
	return nil
}

func (e *Engine) builderText(sess *model.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\nBuilding the post — %d block(s) so far.\n", sess.Data[keyTitle], len(sess.Blocks))
	for i, block := range sess.Blocks {
		fmt.Fprintf(&b, "%d. %s\n", i+1, block.Type)
	}
	b.WriteString("\nAdd a block, preview, or publish.")
	return b.String()
}

func (e *Engine) builderMenu() [][]adapter.Button {
	return rows(
		row(btn("H1", PrefixBlock+string(model.BlockHeadingMajor)), btn("H2", PrefixBlock+string(model.BlockHeadingMinor))),
		row(btn("¶ Paragraph", PrefixBlock+string(model.BlockParagraph)), btn("❝ Quote", PrefixBlock+string(model.BlockQuote))),
		row(btn("• List", PrefixBlock+string(model.BlockList)), btn("— Divider", PrefixBlock+string(model.BlockDivider))),
		row(btn("🖼 Image", PrefixBlock+string(model.BlockImage))),
		row(btn("↩️ Undo", ActBlogUndo), btn("👁 Preview", ActBlogPreview)),
		row(btn("🚀 Publish", ActBlogPublish)),
		cancelRow(),
	)
}

func (e *Engine) blogBuilderAction(ctx context.Context, sess *model.Session, ev Event) error {
	if ev.Kind != EventAction {
		return e.notExpected(ctx, sess)
	}
	switch {
	case strings.HasPrefix(ev.Action, PrefixBlock):
		t := model.BlockType(strings.TrimPrefix(ev.Action, PrefixBlock))
		if !t.Known() {
			return e.notExpected(ctx, sess)
		}
		switch {
		case t == model.BlockDivider:
			sess.AppendBlock(model.Block{Type: model.BlockDivider})
			return e.blogUpdateHub(ctx, sess)
		case t == model.BlockImage:
			sess.Step = model.StepBuilderImage
			return e.render.Send(ctx, sess, "Send the image.", rows(cancelRow()))
		default:
			sess.Data[keyPendingBlock] = string(t)
			sess.Step = model.StepBuilderInput
			return e.render.Send(ctx, sess, builderPrompt(t), rows(cancelRow()))
		}

	case ev.Action == ActBlogUndo:
		if !sess.RemoveLastBlock() {
			return e.reject(ctx, sess, "Nothing to undo yet.")
		}
		return e.blogUpdateHub(ctx, sess)

	case ev.Action == ActBlogPreview:
		return e.render.Send(ctx, sess, renderPreview(sess.Data[keyTitle], sess.Blocks), rows(cancelRow()))

	case ev.Action == ActBlogPublish:
		return e.blogPublish(ctx, sess)
	}
	return e.notExpected(ctx, sess)
}

func builderPrompt(t model.BlockType) string {
	switch t {
	case model.BlockHeadingMajor, model.BlockHeadingMinor:
		return "Heading text:"
	case model.BlockQuote:
		return "Quote text:"
	case model.BlockList:
		return "List items, one per line:"
	default:
		return "Paragraph text:"
	}
}

func (e *Engine) blogBuilderText(ctx context.Context, sess *model.Session, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return e.reject(ctx, sess, "The block text can't be empty.")
	}
	t := model.BlockType(sess.Data[keyPendingBlock])
	block := model.Block{Type: t, Text: input}
	if t == model.BlockList {
		var items []string
		for _, line := range strings.Split(input, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				items = append(items, line)
			}
		}
		block = model.Block{Type: model.BlockList, Items: items}
	}
	sess.AppendBlock(block)
	delete(sess.Data, keyPendingBlock)
	sess.Step = model.StepBuilder
	return e.blogUpdateHub(ctx, sess)
}

func (e *Engine) blogPublish(ctx context.Context, sess *model.Session) error {
	if len(sess.Blocks) == 0 {
		return e.reject(ctx, sess, "Add at least one block before publishing.")
	}
	readTime, _ := strconv.Atoi(sess.Data[keyReadTime])
	if _, err := e.catalog.SaveBlog(ctx, model.Blog{
		Title:       sess.Data[keyTitle],
		Category:    sess.Data[keyCategory],
		ReadTime:    readTime,
		Description: sess.Data[keyDescription],
		CoverURL:    sess.Data[keyCover],
		Blocks:      sess.Blocks,
	}); err != nil {
		return err
	}
	e.finish(ctx, sess, "completed", "🚀 Post published.")
	return nil
}

// renderPreview flattens the draft into one chat message, in block order, with
// simple emphasis per block type. Output is capped at previewLimit runes.
func renderPreview(title string, blocks []model.Block) string {
	parts := make([]string, 0, len(blocks)+1)
	if title != "" {
		parts = append(parts, "<b>"+title+"</b>")
	}
	for _, block := range blocks {
		switch block.Type {
		case model.BlockHeadingMajor:
			parts = append(parts, "<b>"+block.Text+"</b>")
		case model.BlockHeadingMinor:
			parts = append(parts, "<i><b>"+block.Text+"</b></i>")
		case model.BlockQuote:
			parts = append(parts, "❝ "+block.Text)
		case model.BlockDivider:
			parts = append(parts, "———")
		case model.BlockImage:
			line := "🖼 " + block.URL
			if block.Caption != "" {
				line += "\n" + block.Caption
			}
			parts = append(parts, line)
		case model.BlockList:
			lines := make([]string, 0, len(block.Items))
			for _, item := range block.Items {
				lines = append(lines, "• "+item)
			}
			parts = append(parts, strings.Join(lines, "\n"))
		default:
			parts = append(parts, block.Text)
		}
	}
	out := strings.Join(parts, "\n\n")
	if runes := []rune(out); len(runes) > previewLimit {
		out = string(runes[:previewLimit-1]) + "…"
	}
	return out
}
