package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tradecard/cardmint/internal/config"
	"github.com/tradecard/cardmint/internal/domain"
)

var (
	ErrMissingCredential = errors.New("pinning service credential is missing")
	ErrUploadRejected    = errors.New("pinning service rejected the upload")
)

// Client talks to a content-addressed pinning service. Uploads return the
// content identifier under which the document can be retrieved later.
type Client struct {
	baseURL    string
	gatewayURL string
	apiKey     string
	httpClient *http.Client
}

func NewClient(conf *config.PinningConfig) *Client {
	return &Client{
		baseURL:    conf.BaseURL,
		gatewayURL: conf.GatewayURL,
		apiKey:     conf.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	CID string `json:"cid"`
}

// Upload pins the card metadata document and returns its content identifier.
func (c *Client) Upload(ctx context.Context, doc domain.CardMetadata) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	return c.post(ctx, c.baseURL+"/upload", body)
}

// UploadImage pins the content behind imageURL and returns its identifier.
func (c *Client) UploadImage(ctx context.Context, imageURL string) (string, error) {
	body, err := json.Marshal(map[string]string{"url": imageURL})
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	return c.post(ctx, c.baseURL+"/upload/url", body)
}

// GatewayURL builds the retrieval URL for a content identifier. Pure.
func (c *Client) GatewayURL(cid string) string {
	return GatewayURL(c.gatewayURL, cid)
}

func GatewayURL(gateway, cid string) string {
	for len(gateway) > 0 && gateway[len(gateway)-1] == '/' {
		gateway = gateway[:len(gateway)-1]
	}
	return gateway + "/" + cid
}

func (c *Client) post(ctx context.Context, url string, body []byte) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("httpClient.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadRejected, resp.StatusCode, msg)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response -> %w", err)
	}
	if parsed.CID == "" {
		return "", fmt.Errorf("%w: empty content identifier", ErrUploadRejected)
	}

	return parsed.CID, nil
}
