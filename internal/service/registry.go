package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tradecard/cardmint/internal/domain"
	"github.com/tradecard/cardmint/internal/repository"
)

var (
	ErrCardNotFound        = domain.ErrCardNotFound
	ErrTokenNotAccepted    = domain.ErrTokenNotAccepted
	ErrPriceNotSet         = domain.ErrPriceNotSet
	ErrTokenTransferFailed = domain.ErrTokenTransferFailed
	ErrInsufficientPayment = domain.ErrInsufficientPayment
	ErrInsufficientFunds   = domain.ErrInsufficientFunds
	ErrUnauthorized        = domain.ErrUnauthorized
	ErrInvalidPrice        = domain.ErrInvalidPrice
	ErrInvalidToken        = domain.ErrInvalidToken
	ErrInvalidTreasury     = domain.ErrInvalidTreasury
	ErrTokenNotConfigured  = domain.ErrTokenNotConfigured
	ErrNothingToWithdraw   = domain.ErrNothingToWithdraw
	ErrNothingToRecover    = domain.ErrNothingToRecover
)

type RegistryRepository interface {
	GetState(ctx context.Context) (repository.RegistryState, error)
	SetNativePrice(ctx context.Context, price domain.Amount) error
	SetTreasury(ctx context.Context, treasury string) error
	SetToken(ctx context.Context, address string, price domain.Amount) error
	UpdateTokenPrice(ctx context.Context, address string, price domain.Amount) error
	RemoveToken(ctx context.Context, address string) error
	GetToken(ctx context.Context, address string) (domain.AcceptedToken, error)
	ListAcceptedTokens(ctx context.Context) ([]domain.AcceptedToken, error)
	MintWithNative(ctx context.Context, req repository.MintRequest, payment domain.Amount) (domain.Card, error)
	MintWithToken(ctx context.Context, tokenAddress string, req repository.MintRequest) (domain.Card, error)
	WithdrawNative(ctx context.Context) (domain.Amount, error)
	RecoverToken(ctx context.Context, tokenAddress string) (domain.Amount, error)
	FindCard(ctx context.Context, tokenID uint64) (domain.Card, error)
	FindCardsByOwner(ctx context.Context, owner string) ([]domain.Card, error)
	ListEvents(ctx context.Context, limit int) ([]domain.Event, error)
}

// EventPublisher pushes registry events to live subscribers. Persistence of
// events happens inside the registry transaction; publishing is best-effort.
type EventPublisher interface {
	Publish(event domain.Event)
}

// Pricing is the read surface a client needs to prepare a mint: the native
// price, the token acceptance set and the registry address to approve.
type Pricing struct {
	RegistryAddress string                 `json:"registry_address"`
	NativePrice     domain.Amount          `json:"native_price"`
	AcceptedTokens  []domain.AcceptedToken `json:"accepted_tokens"`
}

type RegistryService struct {
	repo   RegistryRepository
	events EventPublisher
}

func NewRegistryService(repo RegistryRepository, events EventPublisher) *RegistryService {
	return &RegistryService{
		repo:   repo,
		events: events,
	}
}

func (s *RegistryService) MintWithNative(ctx context.Context, req repository.MintRequest, payment domain.Amount) (domain.Card, error) {
	card, err := s.repo.MintWithNative(ctx, req, payment)
	if err != nil {
		return domain.Card{}, fmt.Errorf("s.repo.MintWithNative -> %w", err)
	}

	zap.L().Info("card minted",
		zap.Uint64("token_id", card.TokenID),
		zap.String("to", card.Owner),
		zap.String("payment", "native"),
	)
	s.events.Publish(domain.NewCardMintedEvent(card))

	return card, nil
}

func (s *RegistryService) MintWithToken(ctx context.Context, tokenAddress string, req repository.MintRequest) (domain.Card, error) {
	card, err := s.repo.MintWithToken(ctx, tokenAddress, req)
	if err != nil {
		return domain.Card{}, fmt.Errorf("s.repo.MintWithToken -> %w", err)
	}

	zap.L().Info("card minted",
		zap.Uint64("token_id", card.TokenID),
		zap.String("to", card.Owner),
		zap.String("payment", tokenAddress),
	)
	s.events.Publish(domain.NewCardMintedEvent(card))

	return card, nil
}

func (s *RegistryService) GetCardMetadata(ctx context.Context, tokenID uint64) (domain.Card, error) {
	card, err := s.repo.FindCard(ctx, tokenID)
	if err != nil {
		return domain.Card{}, fmt.Errorf("s.repo.FindCard -> %w", err)
	}

	return card, nil
}

func (s *RegistryService) GetCardsByOwner(ctx context.Context, owner string) ([]domain.Card, error) {
	cards, err := s.repo.FindCardsByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindCardsByOwner -> %w", err)
	}

	return cards, nil
}

func (s *RegistryService) GetPricing(ctx context.Context) (Pricing, error) {
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return Pricing{}, fmt.Errorf("s.repo.GetState -> %w", err)
	}

	tokens, err := s.repo.ListAcceptedTokens(ctx)
	if err != nil {
		return Pricing{}, fmt.Errorf("s.repo.ListAcceptedTokens -> %w", err)
	}

	return Pricing{
		RegistryAddress: state.RegistryAddress,
		NativePrice:     state.NativePrice,
		AcceptedTokens:  tokens,
	}, nil
}

func (s *RegistryService) ListEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	events, err := s.repo.ListEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListEvents -> %w", err)
	}

	return events, nil
}

func (s *RegistryService) SetNativePrice(ctx context.Context, caller string, price domain.Amount) error {
	if err := s.requireOwner(ctx, caller); err != nil {
		return err
	}
	if price.IsZero() {
		return ErrInvalidPrice
	}

	if err := s.repo.SetNativePrice(ctx, price); err != nil {
		return fmt.Errorf("s.repo.SetNativePrice -> %w", err)
	}

	s.events.Publish(domain.NewNativePriceUpdatedEvent(price))

	return nil
}

func (s *RegistryService) SetToken(ctx context.Context, caller, address string, price domain.Amount) error {
	if err := s.requireOwner(ctx, caller); err != nil {
		return err
	}
	if domain.IsZeroAddress(address) {
		return ErrInvalidToken
	}
	if price.IsZero() {
		return ErrInvalidPrice
	}

	if err := s.repo.SetToken(ctx, address, price); err != nil {
		return fmt.Errorf("s.repo.SetToken -> %w", err)
	}

	s.events.Publish(domain.NewTokenConfiguredEvent(domain.NormalizeAddress(address), price))

	return nil
}

func (s *RegistryService) UpdateTokenPrice(ctx context.Context, caller, address string, price domain.Amount) error {
	if err := s.requireOwner(ctx, caller); err != nil {
		return err
	}
	if price.IsZero() {
		return ErrInvalidPrice
	}

	if err := s.repo.UpdateTokenPrice(ctx, address, price); err != nil {
		return fmt.Errorf("s.repo.UpdateTokenPrice -> %w", err)
	}

	s.events.Publish(domain.NewTokenConfiguredEvent(domain.NormalizeAddress(address), price))

	return nil
}

func (s *RegistryService) RemoveToken(ctx context.Context, caller, address string) error {
	if err := s.requireOwner(ctx, caller); err != nil {
		return err
	}

	if err := s.repo.RemoveToken(ctx, address); err != nil {
		return fmt.Errorf("s.repo.RemoveToken -> %w", err)
	}

	s.events.Publish(domain.NewTokenRemovedEvent(domain.NormalizeAddress(address)))

	return nil
}

func (s *RegistryService) SetTreasury(ctx context.Context, caller, treasury string) error {
	if err := s.requireOwner(ctx, caller); err != nil {
		return err
	}
	if domain.IsZeroAddress(treasury) {
		return ErrInvalidTreasury
	}

	if err := s.repo.SetTreasury(ctx, treasury); err != nil {
		return fmt.Errorf("s.repo.SetTreasury -> %w", err)
	}

	return nil
}

func (s *RegistryService) WithdrawNative(ctx context.Context, caller string) (domain.Amount, error) {
	if err := s.requireOwner(ctx, caller); err != nil {
		return domain.Amount{}, err
	}

	withdrawn, err := s.repo.WithdrawNative(ctx)
	if err != nil {
		return domain.Amount{}, fmt.Errorf("s.repo.WithdrawNative -> %w", err)
	}

	s.events.Publish(domain.NewPaymentWithdrawnEvent(domain.NativeAsset, withdrawn))

	return withdrawn, nil
}

func (s *RegistryService) RecoverToken(ctx context.Context, caller, tokenAddress string) (domain.Amount, error) {
	if err := s.requireOwner(ctx, caller); err != nil {
		return domain.Amount{}, err
	}

	recovered, err := s.repo.RecoverToken(ctx, tokenAddress)
	if err != nil {
		return domain.Amount{}, fmt.Errorf("s.repo.RecoverToken -> %w", err)
	}

	s.events.Publish(domain.NewPaymentWithdrawnEvent(domain.NormalizeAddress(tokenAddress), recovered))

	return recovered, nil
}

func (s *RegistryService) requireOwner(ctx context.Context, caller string) error {
	state, err := s.repo.GetState(ctx)
	if err != nil {
		return fmt.Errorf("s.repo.GetState -> %w", err)
	}

	if domain.NormalizeAddress(caller) != state.OwnerAddress {
		return ErrUnauthorized
	}

	return nil
}
