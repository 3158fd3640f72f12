package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/ports/adapter"
)

// --- chat mock ---

type mockChat struct {
	mu      sync.Mutex
	nextID  int
	Sent    []string
	Edits   []int
	Deleted []int

	SendErr error
	EditErr error
}

func (c *mockChat) SendText(_ context.Context, _ int64, text string, _ [][]adapter.Button) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return 0, c.SendErr
	}
	c.nextID++
	c.Sent = append(c.Sent, text)
	return c.nextID, nil
}

func (c *mockChat) SendPhoto(context.Context, int64, string, string) (int, error) { return 0, nil }

func (c *mockChat) EditText(_ context.Context, _ int64, messageID int, _ string, _ [][]adapter.Button) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.EditErr != nil {
		return c.EditErr
	}
	c.Edits = append(c.Edits, messageID)
	return nil
}

func (c *mockChat) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Deleted = append(c.Deleted, messageID)
	return nil
}

// --- attachment mocks ---

type mockResolver struct {
	URLs  []string // successive answers; last repeats
	Err   error
	Calls int
}

func (r *mockResolver) FileURL(context.Context, string) (string, error) {
	r.Calls++
	if r.Err != nil {
		return "", r.Err
	}
	i := r.Calls - 1
	if i >= len(r.URLs) {
		i = len(r.URLs) - 1
	}
	return r.URLs[i], nil
}

type mockHost struct {
	FailFirst int // number of leading calls that fail
	URL       string
	Calls     int
}

func (h *mockHost) Upload(context.Context, []byte) (string, error) {
	h.Calls++
	if h.Calls <= h.FailFirst {
		return "", fmt.Errorf("upload rejected: %w", domain.ErrUnavailable)
	}
	return h.URL, nil
}

// newImageServer serves a tiny binary for ingest download tests.
func newImageServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF}) // jpeg magic
	}))
}

// --- document store mock ---

type mockStore struct {
	mu   sync.Mutex
	root map[string]any
	seq  int

	FetchErr error
}

func newMockStore() *mockStore { return &mockStore{root: map[string]any{}} }

func jsonAny(v any) any {
	b, _ := json.Marshal(v)
	var out any
	_ = json.Unmarshal(b, &out)
	return out
}

func (s *mockStore) node(path string, create bool) (map[string]any, string, bool) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	cur := s.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			if !create {
				return nil, "", false
			}
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	return cur, segs[len(segs)-1], true
}

func (s *mockStore) Fetch(_ context.Context, path string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	parent, key, ok := s.node(path, false)
	if !ok {
		return nil, domain.ErrNotFound
	}
	val, ok := parent[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return json.Marshal(val)
}

func (s *mockStore) Append(_ context.Context, path string, record any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent, key, _ := s.node(path, true)
	coll, ok := parent[key].(map[string]any)
	if !ok {
		coll = map[string]any{}
		parent[key] = coll
	}
	s.seq++
	id := fmt.Sprintf("rec%03d", s.seq)
	coll[id] = jsonAny(record)
	return id, nil
}

func (s *mockStore) Merge(_ context.Context, path string, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent, key, _ := s.node(path, true)
	doc, ok := parent[key].(map[string]any)
	if !ok {
		doc = map[string]any{}
		parent[key] = doc
	}
	for k, v := range partial {
		doc[k] = jsonAny(v)
	}
	return nil
}

func (s *mockStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if parent, key, ok := s.node(path, false); ok {
		delete(parent, key)
	}
	return nil
}

func (s *mockStore) seed(path string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent, key, _ := s.node(path, true)
	parent[key] = jsonAny(value)
}
