package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tradecard/cardmint/internal/config"
	"github.com/tradecard/cardmint/internal/domain"
)

var ErrNoCards = errors.New("wallet owns no cards")

// Client is the read-only ownership lookup against an external indexing
// service: given a wallet address, it returns the most recently minted card.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(conf *config.IndexerConfig) *Client {
	return &Client{
		baseURL:    conf.BaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) LatestCard(ctx context.Context, wallet string) (domain.Card, error) {
	endpoint := fmt.Sprintf("%s/cards?owner=%s", c.baseURL, url.QueryEscape(domain.NormalizeAddress(wallet)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Card{}, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Card{}, fmt.Errorf("httpClient.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Card{}, fmt.Errorf("indexer returned status %d", resp.StatusCode)
	}

	// Cards come back newest first.
	var cards []domain.Card
	if err := json.NewDecoder(resp.Body).Decode(&cards); err != nil {
		return domain.Card{}, fmt.Errorf("decode response -> %w", err)
	}
	if len(cards) == 0 {
		return domain.Card{}, ErrNoCards
	}

	return cards[0], nil
}
