package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tradecard/cardmint/internal/domain"
	"github.com/tradecard/cardmint/internal/repository/dao"
)

var (
	ErrCardNotFound       = domain.ErrCardNotFound
	ErrTokenNotAccepted   = domain.ErrTokenNotAccepted
	ErrTokenNotConfigured = domain.ErrTokenNotConfigured
)

// RegistryState is the registry's mutable configuration as seen by callers.
type RegistryState struct {
	OwnerAddress    string
	RegistryAddress string
	TreasuryAddress string
	NativePrice     domain.Amount
	NextTokenID     uint64
}

type RegistryDAO interface {
	GetConfig(ctx context.Context) (dao.RegistryConfig, error)
	UpdateNativePrice(ctx context.Context, price domain.Amount) error
	UpdateTreasury(ctx context.Context, treasury string) error
	UpsertToken(ctx context.Context, address string, price domain.Amount) error
	UpdateTokenPrice(ctx context.Context, address string, price domain.Amount) error
	RemoveToken(ctx context.Context, address string) error
	FindToken(ctx context.Context, address string) (dao.AcceptedToken, error)
	ListAcceptedTokens(ctx context.Context) ([]dao.AcceptedToken, error)
	MintWithNative(ctx context.Context, params dao.MintParams, payment domain.Amount) (dao.Card, error)
	MintWithToken(ctx context.Context, tokenAddress string, params dao.MintParams) (dao.Card, error)
	WithdrawNative(ctx context.Context) (domain.Amount, error)
	RecoverToken(ctx context.Context, tokenAddress string) (domain.Amount, error)
	FindCard(ctx context.Context, tokenID uint64) (dao.Card, error)
	FindCardsByOwner(ctx context.Context, owner string) ([]dao.Card, error)
	ListEvents(ctx context.Context, limit int) ([]dao.Event, error)
}

type RegistryRepository struct {
	dao RegistryDAO
}

func NewRegistryRepository(dao RegistryDAO) *RegistryRepository {
	return &RegistryRepository{
		dao: dao,
	}
}

func (r *RegistryRepository) GetState(ctx context.Context) (RegistryState, error) {
	cfg, err := r.dao.GetConfig(ctx)
	if err != nil {
		return RegistryState{}, fmt.Errorf("r.dao.GetConfig -> %w", err)
	}

	return RegistryState{
		OwnerAddress:    cfg.OwnerAddress,
		RegistryAddress: cfg.RegistryAddress,
		TreasuryAddress: cfg.TreasuryAddress,
		NativePrice:     cfg.NativePrice,
		NextTokenID:     cfg.NextTokenID,
	}, nil
}

func (r *RegistryRepository) SetNativePrice(ctx context.Context, price domain.Amount) error {
	if err := r.dao.UpdateNativePrice(ctx, price); err != nil {
		return fmt.Errorf("r.dao.UpdateNativePrice -> %w", err)
	}

	return nil
}

func (r *RegistryRepository) SetTreasury(ctx context.Context, treasury string) error {
	if err := r.dao.UpdateTreasury(ctx, treasury); err != nil {
		return fmt.Errorf("r.dao.UpdateTreasury -> %w", err)
	}

	return nil
}

func (r *RegistryRepository) SetToken(ctx context.Context, address string, price domain.Amount) error {
	if err := r.dao.UpsertToken(ctx, address, price); err != nil {
		return fmt.Errorf("r.dao.UpsertToken -> %w", err)
	}

	return nil
}

func (r *RegistryRepository) UpdateTokenPrice(ctx context.Context, address string, price domain.Amount) error {
	if err := r.dao.UpdateTokenPrice(ctx, address, price); err != nil {
		return fmt.Errorf("r.dao.UpdateTokenPrice -> %w", err)
	}

	return nil
}

func (r *RegistryRepository) RemoveToken(ctx context.Context, address string) error {
	if err := r.dao.RemoveToken(ctx, address); err != nil {
		return fmt.Errorf("r.dao.RemoveToken -> %w", err)
	}

	return nil
}

func (r *RegistryRepository) GetToken(ctx context.Context, address string) (domain.AcceptedToken, error) {
	token, err := r.dao.FindToken(ctx, address)
	if err != nil {
		return domain.AcceptedToken{}, fmt.Errorf("r.dao.FindToken -> %w", err)
	}

	return tokenToDomain(token), nil
}

func (r *RegistryRepository) ListAcceptedTokens(ctx context.Context) ([]domain.AcceptedToken, error) {
	tokens, err := r.dao.ListAcceptedTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListAcceptedTokens -> %w", err)
	}

	result := make([]domain.AcceptedToken, 0, len(tokens))
	for _, t := range tokens {
		result = append(result, tokenToDomain(t))
	}

	return result, nil
}

// MintRequest is the caller-supplied part of a mint call, with metrics
// already scaled to the registry's fixed-point convention.
type MintRequest struct {
	Caller      string
	Username    string
	Metrics     domain.ScaledMetrics
	MetadataCID string
}

func (req MintRequest) toParams() dao.MintParams {
	return dao.MintParams{
		Caller:          req.Caller,
		Username:        req.Username,
		TotalProfitLoss: req.Metrics.TotalProfitLoss,
		WinRate:         req.Metrics.WinRate,
		NetWorth:        req.Metrics.NetWorth,
		MetadataCID:     req.MetadataCID,
	}
}

func (r *RegistryRepository) MintWithNative(ctx context.Context, req MintRequest, payment domain.Amount) (domain.Card, error) {
	card, err := r.dao.MintWithNative(ctx, req.toParams(), payment)
	if err != nil {
		return domain.Card{}, fmt.Errorf("r.dao.MintWithNative -> %w", err)
	}

	return cardToDomain(card), nil
}

func (r *RegistryRepository) MintWithToken(ctx context.Context, tokenAddress string, req MintRequest) (domain.Card, error) {
	card, err := r.dao.MintWithToken(ctx, tokenAddress, req.toParams())
	if err != nil {
		return domain.Card{}, fmt.Errorf("r.dao.MintWithToken -> %w", err)
	}

	return cardToDomain(card), nil
}

func (r *RegistryRepository) WithdrawNative(ctx context.Context) (domain.Amount, error) {
	withdrawn, err := r.dao.WithdrawNative(ctx)
	if err != nil {
		return domain.Amount{}, fmt.Errorf("r.dao.WithdrawNative -> %w", err)
	}

	return withdrawn, nil
}

func (r *RegistryRepository) RecoverToken(ctx context.Context, tokenAddress string) (domain.Amount, error) {
	recovered, err := r.dao.RecoverToken(ctx, tokenAddress)
	if err != nil {
		return domain.Amount{}, fmt.Errorf("r.dao.RecoverToken -> %w", err)
	}

	return recovered, nil
}

func (r *RegistryRepository) FindCard(ctx context.Context, tokenID uint64) (domain.Card, error) {
	card, err := r.dao.FindCard(ctx, tokenID)
	if err != nil {
		return domain.Card{}, fmt.Errorf("r.dao.FindCard -> %w", err)
	}

	return cardToDomain(card), nil
}

func (r *RegistryRepository) FindCardsByOwner(ctx context.Context, owner string) ([]domain.Card, error) {
	cards, err := r.dao.FindCardsByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCardsByOwner -> %w", err)
	}

	result := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		result = append(result, cardToDomain(c))
	}

	return result, nil
}

func (r *RegistryRepository) ListEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	events, err := r.dao.ListEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListEvents -> %w", err)
	}

	result := make([]domain.Event, 0, len(events))
	for _, e := range events {
		result = append(result, domain.Event{
			ID:        e.ID,
			Type:      domain.EventType(e.Type),
			Payload:   json.RawMessage(e.Payload),
			CreatedAt: e.CreatedAt,
		})
	}

	return result, nil
}

func cardToDomain(c dao.Card) domain.Card {
	return domain.Card{
		TokenID:         c.TokenID,
		Owner:           c.OwnerAddress,
		Username:        c.Username,
		TotalProfitLoss: c.TotalProfitLoss,
		WinRate:         c.WinRate,
		NetWorth:        c.NetWorth,
		MetadataCID:     c.MetadataCID,
		MintedAt:        c.MintedAt,
	}
}

func tokenToDomain(t dao.AcceptedToken) domain.AcceptedToken {
	return domain.AcceptedToken{
		Address:  t.Address,
		Accepted: t.Accepted,
		Price:    t.Price,
	}
}
