// Package client is the HTTP consumer of the registry API, shaped to plug
// into the mint orchestrator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tradecard/cardmint/internal/domain"
	"github.com/tradecard/cardmint/internal/orchestrator"
)

// ErrNotAuthenticated is returned when a protected call is made before Login.
var ErrNotAuthenticated = errors.New("not authenticated, call Login first")

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type session struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token used on subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var sess session
	if err := c.post(ctx, "/api/v1/auth/login", credentials{Email: email, Password: password}, &sess); err != nil {
		return fmt.Errorf("c.post -> %w", err)
	}

	c.token = sess.Token
	return nil
}

// Pricing implements orchestrator.Registry.
func (c *Client) Pricing(ctx context.Context) (orchestrator.Pricing, error) {
	var pricing orchestrator.Pricing
	if err := c.get(ctx, "/api/v1/pricing", &pricing); err != nil {
		return orchestrator.Pricing{}, fmt.Errorf("c.get -> %w", err)
	}

	return pricing, nil
}

type mintNativePayload struct {
	Username        string        `json:"username"`
	TotalProfitLoss int64         `json:"total_profit_loss"`
	WinRate         uint64        `json:"win_rate"`
	NetWorth        uint64        `json:"net_worth"`
	MetadataCID     string        `json:"metadata_cid"`
	Payment         domain.Amount `json:"payment"`
}

type mintTokenPayload struct {
	TokenAddress    string `json:"token_address"`
	Username        string `json:"username"`
	TotalProfitLoss int64  `json:"total_profit_loss"`
	WinRate         uint64 `json:"win_rate"`
	NetWorth        uint64 `json:"net_worth"`
	MetadataCID     string `json:"metadata_cid"`
}

type mintResult struct {
	TokenID uint64 `json:"token_id"`
}

// MintWithNative implements orchestrator.Registry.
func (c *Client) MintWithNative(ctx context.Context, sub orchestrator.Submission, payment domain.Amount) (uint64, error) {
	if err := c.requireAuth(); err != nil {
		return 0, err
	}

	payload := mintNativePayload{
		Username:        sub.Username,
		TotalProfitLoss: sub.Metrics.TotalProfitLoss,
		WinRate:         sub.Metrics.WinRate,
		NetWorth:        sub.Metrics.NetWorth,
		MetadataCID:     sub.MetadataCID,
		Payment:         payment,
	}

	var result mintResult
	if err := c.post(ctx, "/api/v1/mint/native", payload, &result); err != nil {
		return 0, fmt.Errorf("c.post -> %w", err)
	}

	return result.TokenID, nil
}

// MintWithToken implements orchestrator.Registry.
func (c *Client) MintWithToken(ctx context.Context, tokenAddress string, sub orchestrator.Submission) (uint64, error) {
	if err := c.requireAuth(); err != nil {
		return 0, err
	}

	payload := mintTokenPayload{
		TokenAddress:    tokenAddress,
		Username:        sub.Username,
		TotalProfitLoss: sub.Metrics.TotalProfitLoss,
		WinRate:         sub.Metrics.WinRate,
		NetWorth:        sub.Metrics.NetWorth,
		MetadataCID:     sub.MetadataCID,
	}

	var result mintResult
	if err := c.post(ctx, "/api/v1/mint/token", payload, &result); err != nil {
		return 0, fmt.Errorf("c.post -> %w", err)
	}

	return result.TokenID, nil
}

type ledgerPayload struct {
	Asset  string        `json:"asset"`
	Amount domain.Amount `json:"amount"`
}

// Approve implements orchestrator.Registry.
func (c *Client) Approve(ctx context.Context, tokenAddress string, amount domain.Amount) error {
	if err := c.requireAuth(); err != nil {
		return err
	}

	if err := c.post(ctx, "/api/v1/wallet/approve", ledgerPayload{Asset: tokenAddress, Amount: amount}, nil); err != nil {
		return fmt.Errorf("c.post -> %w", err)
	}

	return nil
}

// Deposit funds the authenticated wallet's balance.
func (c *Client) Deposit(ctx context.Context, asset string, amount domain.Amount) error {
	if err := c.requireAuth(); err != nil {
		return err
	}

	if err := c.post(ctx, "/api/v1/wallet/deposit", ledgerPayload{Asset: asset, Amount: amount}, nil); err != nil {
		return fmt.Errorf("c.post -> %w", err)
	}

	return nil
}

// Cards lists the cards owned by an address, newest first.
func (c *Client) Cards(ctx context.Context, owner string) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.get(ctx, "/api/v1/cards?owner="+owner, &cards); err != nil {
		return nil, fmt.Errorf("c.get -> %w", err)
	}

	return cards, nil
}

func (c *Client) requireAuth() error {
	if c.token == "" {
		return ErrNotAuthenticated
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}

	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("c.httpClient.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return apiError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json.Decode -> %w", err)
	}

	return nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("api returned %d: %s", resp.StatusCode, payload.Error)
	}

	return fmt.Errorf("api returned %d: %s", resp.StatusCode, body)
}
