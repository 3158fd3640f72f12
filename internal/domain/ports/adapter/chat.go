// File: internal/domain/ports/adapter/chat.go
package adapter

import "context"

type Button struct {
	Text string
	Data string
	URL  string
}

// ChatClient is the outbound side of the messaging platform. Send methods
// return the platform message id so the caller can track it for cleanup.
// EditText reports domain.ErrMessageGone when the target message no longer
// exists; DeleteMessage failures carry no meaning beyond logging.
type ChatClient interface {
	SendText(ctx context.Context, chatID int64, text string, rows [][]Button) (int, error)
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) (int, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, rows [][]Button) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// FileResolver resolves a platform attachment reference to a temporary,
// platform-issued download URL.
type FileResolver interface {
	FileURL(ctx context.Context, fileID string) (string, error)
}
