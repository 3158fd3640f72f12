package repository

import (
	"context"
	"encoding/json"
)

// DataStore is the path-addressed remote document tree. Paths are slash
// separated logical locations ("products", "settings/rates", "categories/<id>").
//
// Fetch returns the raw JSON value at path, or domain.ErrNotFound when the
// path holds nothing. Append adds a child under path and returns its generated
// id. Merge overwrites only the provided fields of the document at path.
type DataStore interface {
	Fetch(ctx context.Context, path string) (json.RawMessage, error)
	Append(ctx context.Context, path string, record any) (string, error)
	Merge(ctx context.Context, path string, partial map[string]any) error
	Delete(ctx context.Context, path string) error
}
