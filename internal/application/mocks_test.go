package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"
	"telegram-shop-bot/internal/infra/memory"
	"telegram-shop-bot/internal/usecase"

	"github.com/rs/zerolog"
)

// --- chat fake ---

type sentMessage struct {
	ChatID int64
	Text   string
	Rows   [][]adapter.Button
	ID     int
}

type sentPhoto struct {
	ChatID  int64
	URL     string
	Caption string
}

type fakeChat struct {
	mu      sync.Mutex
	nextID  int
	Sent    []sentMessage
	Photos  []sentPhoto
	Edits   []int
	Deleted []int

	EditErr error
}

func (c *fakeChat) SendText(_ context.Context, chatID int64, text string, rows [][]adapter.Button) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.Sent = append(c.Sent, sentMessage{ChatID: chatID, Text: text, Rows: rows, ID: c.nextID})
	return c.nextID, nil
}

func (c *fakeChat) SendPhoto(_ context.Context, chatID int64, photoURL, caption string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.Photos = append(c.Photos, sentPhoto{ChatID: chatID, URL: photoURL, Caption: caption})
	return c.nextID, nil
}

func (c *fakeChat) EditText(_ context.Context, _ int64, messageID int, _ string, _ [][]adapter.Button) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.EditErr != nil {
		return c.EditErr
	}
	c.Edits = append(c.Edits, messageID)
	return nil
}

func (c *fakeChat) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Deleted = append(c.Deleted, messageID)
	return nil
}

func (c *fakeChat) lastText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Sent) == 0 {
		return ""
	}
	return c.Sent[len(c.Sent)-1].Text
}

// --- attachment fakes ---

type fakeResolver struct {
	URL string
	Err error
}

func (r *fakeResolver) FileURL(context.Context, string) (string, error) { return r.URL, r.Err }

// --- document store fake ---

// fakeStore keeps a slash-addressed tree in memory, mirroring the semantics
// of the REST backend: fetching a missing path is ErrNotFound, appending
// generates a child key, merging patches individual fields.
type fakeStore struct {
	mu   sync.Mutex
	root map[string]any
	seq  int

	FetchErr  map[string]error
	AppendErr error
	MergeErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{root: map[string]any{}, FetchErr: map[string]error{}}
}

func toAny(v any) any {
	b, _ := json.Marshal(v)
	var out any
	_ = json.Unmarshal(b, &out)
	return out
}

func (s *fakeStore) node(path string, create bool) (map[string]any, string, bool) {
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

func (s *fakeStore) Fetch(_ context.Context, path string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FetchErr[path]; err != nil {
		return nil, err
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

func (s *fakeStore) Append(_ context.Context, path string, record any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AppendErr != nil {
		return "", s.AppendErr
	}
	parent, key, _ := s.node(path, true)
	coll, ok := parent[key].(map[string]any)
	if !ok {
		coll = map[string]any{}
		parent[key] = coll
	}
	s.seq++
	id := fmt.Sprintf("rec%03d", s.seq)
	coll[id] = toAny(record)
	return id, nil
}

func (s *fakeStore) Merge(_ context.Context, path string, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MergeErr != nil {
		return s.MergeErr
	}
	parent, key, _ := s.node(path, true)
	doc, ok := parent[key].(map[string]any)
	if !ok {
		doc = map[string]any{}
		parent[key] = doc
	}
	for k, v := range partial {
		doc[k] = toAny(v)
	}
	return nil
}

func (s *fakeStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if parent, key, ok := s.node(path, false); ok {
		delete(parent, key)
	}
	return nil
}

func (s *fakeStore) seed(path string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent, key, _ := s.node(path, true)
	parent[key] = toAny(value)
}

// --- engine harness ---

const (
	testUserID  = int64(101)
	testAdminID = int64(999)
)

type harness struct {
	engine   *Engine
	chat     *fakeChat
	store    *fakeStore
	sessions *memory.SessionRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zerolog.Nop()
	chat := &fakeChat{}
	store := newFakeStore()
	repo := memory.NewSessionRepo()

	sessionUC := usecase.NewSessionUseCase(repo, chat, &logger)
	catalogUC := usecase.NewCatalogUseCase(store, &logger)
	ingestUC := usecase.NewIngestUseCase(&fakeResolver{URL: "https://files.example/receipt.jpg"}, nil, &logger)
	renderer := usecase.NewRenderer(chat, &logger)

	engine := NewEngine(EngineDeps{
		Sessions: sessionUC,
		Catalog:  catalogUC,
		Ingest:   ingestUC,
		Render:   renderer,
		Chat:     chat,
	}, []int64{testAdminID}, 0, &logger)

	return &harness{engine: engine, chat: chat, store: store, sessions: repo}
}

func (h *harness) session(t *testing.T, userID int64) *model.Session {
	t.Helper()
	sess, err := h.sessions.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("session for %d: %v", userID, err)
	}
	return sess
}

func action(userID int64, data string) Event {
	return Event{UserID: userID, FirstName: "Test", Kind: EventAction, Action: data}
}

func text(userID int64, body string) Event {
	return Event{UserID: userID, FirstName: "Test", Kind: EventText, Text: body}
}

func photo(userID int64, fileID string) Event {
	return Event{UserID: userID, FirstName: "Test", Kind: EventPhoto, PhotoFileID: fileID}
}

func (h *harness) handle(ev Event) { h.engine.Handle(context.Background(), ev) }

func (h *harness) seedProduct(id, name string, price int64) {
	h.store.seed("products/"+id, map[string]any{
		"name": name, "price": price, "category": "misc",
		"description": "d", "photo": "https://img.example/p.jpg",
		"createdAt": "2026-01-02T10:00:00Z",
	})
}
