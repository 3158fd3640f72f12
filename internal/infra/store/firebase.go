// File: internal/infra/store/firebase.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/ports/repository"
)

var _ repository.DataStore = (*FirebaseStore)(nil)

// FirebaseStore talks to a Firebase-RTDB-compatible REST endpoint. Every
// logical path maps to <base>/<path>.json; POST generates a child id, PATCH
// merges fields, DELETE removes the subtree.
type FirebaseStore struct {
	baseURL string
	auth    string
	client  *http.Client
}

func NewFirebaseStore(baseURL, auth string) *FirebaseStore {
	return &FirebaseStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *FirebaseStore) url(path string) string {
	u := s.baseURL + "/" + strings.Trim(path, "/") + ".json"
	if s.auth != "" {
		u += "?auth=" + s.auth
	}
	return u
}

func (s *FirebaseStore) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s body: %w", path, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.url(path), rd)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("store %s %s: status %d: %w", method, path, resp.StatusCode, domain.ErrUnavailable)
	}
	return raw, nil
}

func (s *FirebaseStore) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	raw, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	// The REST API answers "null" for an empty location.
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, domain.ErrNotFound
	}
	return raw, nil
}

func (s *FirebaseStore) Append(ctx context.Context, path string, record any) (string, error) {
	raw, err := s.do(ctx, http.MethodPost, path, record)
	if err != nil {
		return "", err
	}
	var out struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode push id for %s: %w", path, err)
	}
	if out.Name == "" {
		return "", fmt.Errorf("append %s: empty generated id: %w", path, domain.ErrUnavailable)
	}
	return out.Name, nil
}

func (s *FirebaseStore) Merge(ctx context.Context, path string, partial map[string]any) error {
	_, err := s.do(ctx, http.MethodPatch, path, partial)
	return err
}

func (s *FirebaseStore) Delete(ctx context.Context, path string) error {
	_, err := s.do(ctx, http.MethodDelete, path, nil)
	return err
}
