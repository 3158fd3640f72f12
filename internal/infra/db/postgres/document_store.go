package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/ports/repository"
)

var _ repository.DataStore = (*DocumentStore)(nil)

// DocumentStore keeps the path-addressed document tree in a single Postgres
// table: one row per child document, keyed by (path, key). It is a drop-in
// alternative to the REST store for deployments that already run Postgres.
type DocumentStore struct {
	pool *pgxpool.Pool
}

type executor interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

func NewPgxPool(ctx context.Context, url string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	return pgxpool.ConnectConfig(ctx, cfg)
}

func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS documents (
  path TEXT NOT NULL,
  key  TEXT NOT NULL,
  data JSONB NOT NULL,
  PRIMARY KEY (path, key)
);`
	_, err := s.exec().Exec(ctx, q)
	return err
}

func (s *DocumentStore) exec() executor { return s.pool }

// splitPath returns the collection and the child key of a path with at least
// two segments; ok is false for a bare collection path like "products".
func splitPath(path string) (parent, key string, ok bool) {
	path = strings.Trim(path, "/")
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return path, "", false
	}
	return path[:i], path[i+1:], true
}

func (s *DocumentStore) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	if parent, key, ok := splitPath(path); ok {
		var data []byte
		err := s.exec().QueryRow(ctx, `SELECT data FROM documents WHERE path=$1 AND key=$2;`, parent, key).Scan(&data)
		if err == nil {
			return data, nil
		}
		if err != pgx.ErrNoRows {
			return nil, fmt.Errorf("fetch %s: %w", path, err)
		}
		// fall through: the path may itself be a collection of children
	}

	rows, err := s.exec().Query(ctx, `SELECT key, data FROM documents WHERE path=$1;`, strings.Trim(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("fetch children of %s: %w", path, err)
	}
	defer rows.Close()

	children := map[string]json.RawMessage{}
	for rows.Next() {
		var key string
		var data []byte
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scan child of %s: %w", path, err)
		}
		children[key] = data
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	if len(children) == 0 {
		return nil, domain.ErrNotFound
	}
	return json.Marshal(children)
}

func (s *DocumentStore) Append(ctx context.Context, path string, record any) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal record for %s: %w", path, err)
	}
	key := ulid.Make().String()
	_, err = s.exec().Exec(ctx,
		`INSERT INTO documents (path, key, data) VALUES ($1, $2, $3);`,
		strings.Trim(path, "/"), key, data)
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", path, err)
	}
	return key, nil
}

const upsertMerge = `
INSERT INTO documents (path, key, data) VALUES ($1, $2, $3)
ON CONFLICT (path, key) DO UPDATE SET data =
  CASE WHEN jsonb_typeof(documents.data) = 'object' AND jsonb_typeof(excluded.data) = 'object'
       THEN documents.data || excluded.data
       ELSE excluded.data
  END;`

func (s *DocumentStore) Merge(ctx context.Context, path string, partial map[string]any) error {
	if parent, key, ok := splitPath(path); ok {
		data, err := json.Marshal(partial)
		if err != nil {
			return fmt.Errorf("marshal partial for %s: %w", path, err)
		}
		if _, err := s.exec().Exec(ctx, upsertMerge, parent, key, data); err != nil {
			return fmt.Errorf("merge %s: %w", path, err)
		}
		return nil
	}
	// Bare collection: each field becomes (or overwrites) a child document.
	for key, value := range partial {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s/%s: %w", path, key, err)
		}
		if _, err := s.exec().Exec(ctx, upsertMerge, strings.Trim(path, "/"), key, data); err != nil {
			return fmt.Errorf("merge %s/%s: %w", path, key, err)
		}
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, path string) error {
	trimmed := strings.Trim(path, "/")
	if parent, key, ok := splitPath(path); ok {
		if _, err := s.exec().Exec(ctx,
			`DELETE FROM documents WHERE (path=$1 AND key=$2) OR path=$3 OR path LIKE $3 || '/%';`,
			parent, key, trimmed); err != nil {
			return fmt.Errorf("delete %s: %w", path, err)
		}
		return nil
	}
	if _, err := s.exec().Exec(ctx,
		`DELETE FROM documents WHERE path=$1 OR path LIKE $1 || '/%';`, trimmed); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
