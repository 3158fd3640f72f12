package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newIngest(resolver *mockResolver, host *mockHost) *IngestUseCase {
	logger := zerolog.Nop()
	var uc *IngestUseCase
	if host == nil {
		uc = NewIngestUseCase(resolver, nil, &logger)
	} else {
		uc = NewIngestUseCase(resolver, host, &logger)
	}
	uc.sleep = func(time.Duration) {} // no real backoff in tests
	return uc
}

func TestIngestPassthroughWithoutHost(t *testing.T) {
	t.Parallel()
	resolver := &mockResolver{URLs: []string{"https://cdn.example/tmp.jpg"}}
	uc := newIngest(resolver, nil)

	url, err := uc.Ingest(context.Background(), "f1")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if url != "https://cdn.example/tmp.jpg" {
		t.Fatalf("url = %q", url)
	}
}

func TestIngestUploadsToHost(t *testing.T) {
	t.Parallel()
	srv := newImageServer()
	defer srv.Close()

	resolver := &mockResolver{URLs: []string{srv.URL + "/file"}}
	host := &mockHost{URL: "https://host.example/durable.jpg"}
	uc := newIngest(resolver, host)

	url, err := uc.Ingest(context.Background(), "f1")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if url != "https://host.example/durable.jpg" {
		t.Fatalf("url = %q", url)
	}
	if host.Calls != 1 {
		t.Fatalf("upload calls = %d, want 1", host.Calls)
	}
}

func TestIngestRetriesThenSucceeds(t *testing.T) {
	t.Parallel()
	srv := newImageServer()
	defer srv.Close()

	resolver := &mockResolver{URLs: []string{srv.URL + "/file"}}
	host := &mockHost{FailFirst: 2, URL: "https://host.example/durable.jpg"}
	uc := newIngest(resolver, host)

	url, err := uc.Ingest(context.Background(), "f1")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if url != "https://host.example/durable.jpg" {
		t.Fatalf("url = %q", url)
	}
	if host.Calls != 3 {
		t.Fatalf("upload calls = %d, want 3 (two failures, one success)", host.Calls)
	}
}

func TestIngestFallsBackWhenUploadExhausted(t *testing.T) {
	t.Parallel()
	srv := newImageServer()
	defer srv.Close()

	resolver := &mockResolver{URLs: []string{srv.URL + "/file", "https://cdn.example/fallback.jpg"}}
	host := &mockHost{FailFirst: 99}
	uc := newIngest(resolver, host)

	url, err := uc.Ingest(context.Background(), "f1")
	if err != nil {
		t.Fatalf("ingest should degrade, not fail: %v", err)
	}
	if url != "https://cdn.example/fallback.jpg" {
		t.Fatalf("url = %q, want fallback", url)
	}
	if host.Calls != 3 {
		t.Fatalf("upload calls = %d, want 3 attempts", host.Calls)
	}
	if resolver.Calls != 2 {
		t.Fatalf("resolver calls = %d, want 2 (initial + fallback)", resolver.Calls)
	}
}

func TestIngestResolveFailureIsFatal(t *testing.T) {
	t.Parallel()
	resolver := &mockResolver{Err: errors.New("file id expired")}
	uc := newIngest(resolver, nil)

	if _, err := uc.Ingest(context.Background(), "f1"); err == nil {
		t.Fatal("expected error when the platform cannot resolve the file")
	}
}
