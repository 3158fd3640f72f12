package application

import (
	"context"
	"strings"
	"testing"

	"telegram-shop-bot/internal/domain/model"
)

func (h *harness) startBlogDraft(t *testing.T) {
	t.Helper()
	h.store.seed("categories/news", "News")
	h.handle(action(testAdminID, ActAdminAddBlog))
	h.handle(text(testAdminID, "Launch day"))
	h.handle(action(testAdminID, PrefixPickCategory+"news"))
	h.handle(text(testAdminID, "4"))
	h.handle(text(testAdminID, "What we shipped"))
	h.handle(action(testAdminID, ActBlogSkipCover))
	if got := h.session(t, testAdminID).Step; got != model.StepBuilder {
		t.Fatalf("step = %s, want builder", got)
	}
}

func TestBlogBuilderAppendUndoPublish(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.startBlogDraft(t)

	h.handle(action(testAdminID, PrefixBlock+string(model.BlockHeadingMajor)))
	h.handle(text(testAdminID, "Title"))
	h.handle(action(testAdminID, PrefixBlock+string(model.BlockParagraph)))
	h.handle(text(testAdminID, "Body"))
	h.handle(action(testAdminID, PrefixBlock+string(model.BlockDivider)))

	sess := h.session(t, testAdminID)
	if len(sess.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(sess.Blocks))
	}

	h.handle(action(testAdminID, ActBlogUndo))
	sess = h.session(t, testAdminID)
	if len(sess.Blocks) != 2 || sess.Blocks[1].Type != model.BlockParagraph {
		t.Fatalf("undo wrong: %+v", sess.Blocks)
	}

	h.handle(action(testAdminID, ActBlogPublish))
	blogs, err := h.engine.catalog.Blogs(context.Background())
	if err != nil {
		t.Fatalf("blogs: %v", err)
	}
	if len(blogs) != 1 {
		t.Fatalf("blogs = %d, want 1", len(blogs))
	}
	b := blogs[0]
	if b.Title != "Launch day" || b.Category != "News" || b.ReadTime != 4 {
		t.Fatalf("blog = %+v", b)
	}
	if len(b.Blocks) != 2 {
		t.Fatalf("published blocks = %d, want 2", len(b.Blocks))
	}
	if !h.session(t, testAdminID).Idle() {
		t.Fatal("session not reset after publish")
	}
}

func TestBlogUndoOnEmptyDraft(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.startBlogDraft(t)

	h.handle(action(testAdminID, ActBlogUndo))
	if got := h.chat.lastText(); !strings.Contains(got, "Nothing to undo") {
		t.Fatalf("expected undo notice, got %q", got)
	}
}

func TestBlogPublishNeedsBlocks(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.startBlogDraft(t)

	h.handle(action(testAdminID, ActBlogPublish))
	blogs, err := h.engine.catalog.Blogs(context.Background())
	if err != nil {
		t.Fatalf("blogs: %v", err)
	}
	if len(blogs) != 0 {
		t.Fatal("empty draft should not publish")
	}
	if got := h.session(t, testAdminID).Step; got != model.StepBuilder {
		t.Fatalf("step = %s, want builder", got)
	}
}

func TestBlogListBlockSplitsLines(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.startBlogDraft(t)

	h.handle(action(testAdminID, PrefixBlock+string(model.BlockList)))
	h.handle(text(testAdminID, "first\nsecond\n\n  third  "))

	sess := h.session(t, testAdminID)
	if len(sess.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(sess.Blocks))
	}
	items := sess.Blocks[0].Items
	if len(items) != 3 || items[0] != "first" || items[2] != "third" {
		t.Fatalf("items = %v", items)
	}
}

func TestRenderPreviewOrderAndEmphasis(t *testing.T) {
	t.Parallel()
	blocks := []model.Block{
		{Type: model.BlockHeadingMajor, Text: "Title"},
		{Type: model.BlockParagraph, Text: "Body"},
		{Type: model.BlockQuote, Text: "Said so"},
		{Type: model.BlockList, Items: []string{"a", "b"}},
	}
	out := renderPreview("", blocks)

	heading := strings.Index(out, "<b>Title</b>")
	body := strings.Index(out, "Body")
	quote := strings.Index(out, "❝ Said so")
	list := strings.Index(out, "• a\n• b")
	if heading < 0 || body < 0 || quote < 0 || list < 0 {
		t.Fatalf("preview missing parts:\n%s", out)
	}
	if !(heading < body && body < quote && quote < list) {
		t.Fatalf("preview out of order:\n%s", out)
	}
}

func TestRenderPreviewTruncates(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x", 6000)
	out := renderPreview("", []model.Block{{Type: model.BlockParagraph, Text: long}})

	runes := []rune(out)
	if len(runes) > previewLimit {
		t.Fatalf("preview length = %d runes, limit %d", len(runes), previewLimit)
	}
	if runes[len(runes)-1] != '…' {
		t.Fatalf("truncated preview should end with ellipsis, got %q", string(runes[len(runes)-10:]))
	}
}
