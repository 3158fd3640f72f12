package application

import (
	"context"
	"testing"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/model"
)

func TestCategoryAdd(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.handle(action(testAdminID, ActAdminCategories))
	h.handle(action(testAdminID, ActCategoryAdd))
	h.handle(text(testAdminID, "Herbal Tea"))

	name, err := h.engine.catalog.CategoryName(context.Background(), "herbal-tea")
	if err != nil {
		t.Fatalf("category missing: %v", err)
	}
	if name != "Herbal Tea" {
		t.Fatalf("name = %q", name)
	}
}

func TestCategoryAddDuplicateRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.store.seed("categories/tea", "Tea")

	h.handle(action(testAdminID, ActAdminCategories))
	h.handle(action(testAdminID, ActCategoryAdd))
	h.handle(text(testAdminID, "Tea"))

	if got := h.session(t, testAdminID).Step; got != model.StepCategoryAdd {
		t.Fatalf("duplicate advanced step to %s", got)
	}
}

func TestCategoryRename(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.store.seed("categories/tea", "Tea")

	h.handle(action(testAdminID, ActAdminCategories))
	h.handle(action(testAdminID, PrefixCatRename+"tea"))
	h.handle(text(testAdminID, "Fine Tea"))

	name, err := h.engine.catalog.CategoryName(context.Background(), "tea")
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	if name != "Fine Tea" {
		t.Fatalf("name = %q, want Fine Tea", name)
	}
}

func TestCategoryDeleteConfirmed(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.store.seed("categories/tea", "Tea")

	h.handle(action(testAdminID, ActAdminCategories))
	h.handle(action(testAdminID, PrefixCatDelete+"tea"))
	h.handle(action(testAdminID, ActCatDelYes))

	if _, err := h.engine.catalog.CategoryName(context.Background(), "tea"); err == nil {
		t.Fatal("category still present after delete")
	} else if err != domain.ErrNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCategoryDeleteDeclined(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.store.seed("categories/tea", "Tea")

	h.handle(action(testAdminID, ActAdminCategories))
	h.handle(action(testAdminID, PrefixCatDelete+"tea"))
	h.handle(action(testAdminID, ActCatDelNo))

	if _, err := h.engine.catalog.CategoryName(context.Background(), "tea"); err != nil {
		t.Fatalf("category vanished after declining: %v", err)
	}
	if !h.session(t, testAdminID).Idle() {
		t.Fatal("session not reset after declining")
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Herbal Tea":  "herbal-tea",
		"  Tea!  ":    "tea",
		"A  B   C":    "a-b-c",
		"Čaj & Kofe":  "čaj-kofe",
		"!!!":         "",
		"Green-Tea-2": "green-tea-2",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
