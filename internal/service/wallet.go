package service

import (
	"context"
	"fmt"

	"github.com/tradecard/cardmint/internal/domain"
	"github.com/tradecard/cardmint/internal/repository"
)

type LedgerRepository interface {
	Deposit(ctx context.Context, address, asset string, amount domain.Amount) (domain.Balance, error)
	Approve(ctx context.Context, owner, spender, asset string, amount domain.Amount) (domain.Allowance, error)
	GetBalance(ctx context.Context, address, asset string) (domain.Balance, error)
	GetAllowance(ctx context.Context, owner, spender, asset string) (domain.Allowance, error)
}

type WalletRegistryRepository interface {
	GetState(ctx context.Context) (repository.RegistryState, error)
}

// WalletService covers the caller-side ledger operations: funding an address
// and granting the registry an allowance for token payments.
type WalletService struct {
	ledger   LedgerRepository
	registry WalletRegistryRepository
}

func NewWalletService(ledger LedgerRepository, registry WalletRegistryRepository) *WalletService {
	return &WalletService{
		ledger:   ledger,
		registry: registry,
	}
}

func (s *WalletService) Deposit(ctx context.Context, address, asset string, amount domain.Amount) (domain.Balance, error) {
	balance, err := s.ledger.Deposit(ctx, address, asset, amount)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("s.ledger.Deposit -> %w", err)
	}

	return balance, nil
}

// Approve grants the registry an allowance over the caller's asset.
func (s *WalletService) Approve(ctx context.Context, owner, asset string, amount domain.Amount) (domain.Allowance, error) {
	state, err := s.registry.GetState(ctx)
	if err != nil {
		return domain.Allowance{}, fmt.Errorf("s.registry.GetState -> %w", err)
	}

	allowance, err := s.ledger.Approve(ctx, owner, state.RegistryAddress, asset, amount)
	if err != nil {
		return domain.Allowance{}, fmt.Errorf("s.ledger.Approve -> %w", err)
	}

	return allowance, nil
}

func (s *WalletService) GetBalance(ctx context.Context, address, asset string) (domain.Balance, error) {
	balance, err := s.ledger.GetBalance(ctx, address, asset)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("s.ledger.GetBalance -> %w", err)
	}

	return balance, nil
}

func (s *WalletService) GetAllowance(ctx context.Context, owner, asset string) (domain.Allowance, error) {
	state, err := s.registry.GetState(ctx)
	if err != nil {
		return domain.Allowance{}, fmt.Errorf("s.registry.GetState -> %w", err)
	}

	allowance, err := s.ledger.GetAllowance(ctx, owner, state.RegistryAddress, asset)
	if err != nil {
		return domain.Allowance{}, fmt.Errorf("s.ledger.GetAllowance -> %w", err)
	}

	return allowance, nil
}
