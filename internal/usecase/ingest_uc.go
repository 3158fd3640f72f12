package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/ports/adapter"
	"telegram-shop-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// IngestUseCase resolves a chat attachment to a durable public URL.
//
// Strategies are tried in order, short-circuiting on the first success:
//  1. resolve the platform's temporary download URL;
//  2. no external host configured → the temporary URL is the result;
//  3. download the binary and upload it to the external host, retrying the
//     upload with linear backoff;
//  4. upload exhausted → re-resolve and return the temporary URL;
//  5. even that failing → a definite error, never an empty string.
type IngestUseCase struct {
	files adapter.FileResolver
	host  adapter.ImageHost // nil when no credential is configured
	log   *zerolog.Logger

	client  *http.Client
	retries int
	backoff time.Duration
	sleep   func(time.Duration)
}

func NewIngestUseCase(files adapter.FileResolver, host adapter.ImageHost, logger *zerolog.Logger) *IngestUseCase {
	return &IngestUseCase{
		files:   files,
		host:    host,
		log:     logger,
		client:  &http.Client{Timeout: 10 * time.Second},
		retries: 2,
		backoff: time.Second,
		sleep:   time.Sleep,
	}
}

// Ingest turns fileID into a URL usable in persisted records.
func (u *IngestUseCase) Ingest(ctx context.Context, fileID string) (string, error) {
	tempURL, err := u.files.FileURL(ctx, fileID)
	if err != nil {
		metrics.IngestResult("resolve", false)
		return "", fmt.Errorf("resolve attachment %s: %w", fileID, err)
	}

	if u.host == nil {
		metrics.IngestResult("passthrough", true)
		return tempURL, nil
	}

	image, err := u.download(ctx, tempURL)
	if err != nil {
		u.log.Warn().Err(err).Msg("attachment download failed, falling back to platform url")
		metrics.IngestFallback()
		return u.fallback(ctx, fileID)
	}

	for attempt := 0; attempt <= u.retries; attempt++ {
		if attempt > 0 {
			u.sleep(time.Duration(attempt) * u.backoff) // 1s, then 2s
		}
		url, err := u.host.Upload(ctx, image)
		if err == nil {
			metrics.IngestResult("upload", true)
			return url, nil
		}
		u.log.Warn().Err(err).Int("attempt", attempt+1).Msg("image upload failed")
		metrics.IngestResult("upload", false)
	}

	metrics.IngestFallback()
	return u.fallback(ctx, fileID)
}

func (u *IngestUseCase) fallback(ctx context.Context, fileID string) (string, error) {
	url, err := u.files.FileURL(ctx, fileID)
	if err != nil {
		metrics.IngestResult("fallback", false)
		return "", fmt.Errorf("attachment %s: upload exhausted and fallback failed: %w", fileID, domain.ErrUnavailable)
	}
	metrics.IngestResult("fallback", true)
	return url, nil
}

func (u *IngestUseCase) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("download status %d: %w", resp.StatusCode, domain.ErrUnavailable)
	}
	return io.ReadAll(resp.Body)
}
