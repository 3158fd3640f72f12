package application

import (
	"context"
	"testing"

	"telegram-shop-bot/internal/domain/model"
)

func TestFeedbackRejectsOutOfRangeRating(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.handle(action(testUserID, ActMenuFeedback))
	for _, bad := range []string{"0", "6", "nope"} {
		h.handle(text(testUserID, bad))
		if got := h.session(t, testUserID).Step; got != model.StepRating {
			t.Fatalf("rating %q advanced step to %s", bad, got)
		}
	}

	h.handle(text(testUserID, "3"))
	if got := h.session(t, testUserID).Step; got != model.StepFeedbackText {
		t.Fatalf("step = %s, want text_input", got)
	}
}

func TestFeedbackSkipStoresEmptyText(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.handle(action(testUserID, ActMenuFeedback))
	h.handle(action(testUserID, PrefixRating+"4"))
	h.handle(action(testUserID, ActFeedbackSkip))

	items, err := h.engine.catalog.Feedbacks(context.Background())
	if err != nil {
		t.Fatalf("feedbacks: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("feedbacks = %d, want 1", len(items))
	}
	if items[0].Rating != 4 || items[0].Text != "" {
		t.Fatalf("record = %+v, want rating 4 with empty text", items[0])
	}
	if !h.session(t, testUserID).Idle() {
		t.Fatal("session not reset after feedback")
	}
}

func TestFeedbackWithComment(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.handle(action(testUserID, ActMenuFeedback))
	h.handle(action(testUserID, PrefixRating+"5"))
	h.handle(text(testUserID, "Great service"))

	items, err := h.engine.catalog.Feedbacks(context.Background())
	if err != nil {
		t.Fatalf("feedbacks: %v", err)
	}
	if len(items) != 1 || items[0].Text != "Great service" || items[0].Name != "Test" {
		t.Fatalf("record = %+v", items)
	}
}
