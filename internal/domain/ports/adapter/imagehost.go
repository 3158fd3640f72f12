// File: internal/domain/ports/adapter/imagehost.go
package adapter

import "context"

// ImageHost uploads an image binary to an external host and returns a durable
// public URL.
type ImageHost interface {
	Upload(ctx context.Context, image []byte) (string, error)
}
