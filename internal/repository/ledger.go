package repository

import (
	"context"
	"fmt"

	"github.com/tradecard/cardmint/internal/domain"
	"github.com/tradecard/cardmint/internal/repository/dao"
)

type LedgerDAO interface {
	Deposit(ctx context.Context, address, asset string, amount domain.Amount) (dao.Balance, error)
	Approve(ctx context.Context, owner, spender, asset string, amount domain.Amount) (dao.Allowance, error)
	FindBalance(ctx context.Context, address, asset string) (dao.Balance, error)
	FindAllowance(ctx context.Context, owner, spender, asset string) (dao.Allowance, error)
}

type LedgerRepository struct {
	dao LedgerDAO
}

func NewLedgerRepository(dao LedgerDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func (r *LedgerRepository) Deposit(ctx context.Context, address, asset string, amount domain.Amount) (domain.Balance, error) {
	balance, err := r.dao.Deposit(ctx, domain.NormalizeAddress(address), domain.NormalizeAddress(asset), amount)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("r.dao.Deposit -> %w", err)
	}

	return balanceToDomain(balance), nil
}

func (r *LedgerRepository) Approve(ctx context.Context, owner, spender, asset string, amount domain.Amount) (domain.Allowance, error) {
	allowance, err := r.dao.Approve(ctx,
		domain.NormalizeAddress(owner),
		domain.NormalizeAddress(spender),
		domain.NormalizeAddress(asset),
		amount,
	)
	if err != nil {
		return domain.Allowance{}, fmt.Errorf("r.dao.Approve -> %w", err)
	}

	return allowanceToDomain(allowance), nil
}

func (r *LedgerRepository) GetBalance(ctx context.Context, address, asset string) (domain.Balance, error) {
	balance, err := r.dao.FindBalance(ctx, domain.NormalizeAddress(address), domain.NormalizeAddress(asset))
	if err != nil {
		return domain.Balance{}, fmt.Errorf("r.dao.FindBalance -> %w", err)
	}

	return balanceToDomain(balance), nil
}

func (r *LedgerRepository) GetAllowance(ctx context.Context, owner, spender, asset string) (domain.Allowance, error) {
	allowance, err := r.dao.FindAllowance(ctx,
		domain.NormalizeAddress(owner),
		domain.NormalizeAddress(spender),
		domain.NormalizeAddress(asset),
	)
	if err != nil {
		return domain.Allowance{}, fmt.Errorf("r.dao.FindAllowance -> %w", err)
	}

	return allowanceToDomain(allowance), nil
}

func balanceToDomain(b dao.Balance) domain.Balance {
	return domain.Balance{
		Address: b.Address,
		Asset:   b.Asset,
		Amount:  b.Amount,
	}
}

func allowanceToDomain(a dao.Allowance) domain.Allowance {
	return domain.Allowance{
		Owner:   a.OwnerAddress,
		Spender: a.SpenderAddress,
		Asset:   a.Asset,
		Amount:  a.Amount,
	}
}
