// File: internal/infra/imghost/imgbb.go
package imghost

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/ports/adapter"
)

var _ adapter.ImageHost = (*ImgBBClient)(nil)

// ImgBBClient uploads images to the imgbb.com hosting API. The binary is sent
// base64-encoded as a form field, matching the API's upload contract.
type ImgBBClient struct {
	endpoint string
	key      string
	client   *http.Client
}

func NewImgBBClient(endpoint, key string, timeout time.Duration) *ImgBBClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ImgBBClient{
		endpoint: endpoint,
		key:      key,
		client:   &http.Client{Timeout: timeout},
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Status int `json:"status"`
}

func (c *ImgBBClient) Upload(ctx context.Context, image []byte) (string, error) {
	form := url.Values{}
	form.Set("key", c.key)
	form.Set("image", base64.StdEncoding.EncodeToString(image))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("upload image: status %d: %w", resp.StatusCode, domain.ErrUnavailable)
	}

	var out uploadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if !out.Success || out.Data.URL == "" {
		return "", fmt.Errorf("upload rejected (status %d): %w", out.Status, domain.ErrUnavailable)
	}
	return out.Data.URL, nil
}
