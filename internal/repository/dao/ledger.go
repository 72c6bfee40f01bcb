package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tradecard/cardmint/internal/domain"
)

// Balance is the holding of one address in one asset. Asset is either
// domain.NativeAsset or a token contract address.
type Balance struct {
	ID      uint   `gorm:"primaryKey"`
	Address string `gorm:"uniqueIndex:idx_balances_addr_asset;not null"`
	Asset   string `gorm:"uniqueIndex:idx_balances_addr_asset;not null"`

	Amount domain.Amount `gorm:"not null"`

	UpdatedAt time.Time
}

type Allowance struct {
	ID             uint   `gorm:"primaryKey"`
	OwnerAddress   string `gorm:"uniqueIndex:idx_allowances_key;not null"`
	SpenderAddress string `gorm:"uniqueIndex:idx_allowances_key;not null"`
	Asset          string `gorm:"uniqueIndex:idx_allowances_key;not null"`

	Amount domain.Amount `gorm:"not null"`

	UpdatedAt time.Time
}

type LedgerDAO struct {
	db *gorm.DB
}

func NewLedgerDAO(db *gorm.DB) *LedgerDAO {
	return &LedgerDAO{
		db: db,
	}
}

// Deposit credits an address. It stands in for the on-ramp that funds a
// wallet before a mint attempt.
func (d *LedgerDAO) Deposit(ctx context.Context, address, asset string, amount domain.Amount) (Balance, error) {
	var balance Balance

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := creditBalance(tx, address, asset, amount); err != nil {
			return err
		}

		return lockForUpdate(tx).
			First(&balance, "address = ? AND asset = ?", address, asset).Error
	})
	if err != nil {
		return Balance{}, err
	}

	return balance, nil
}

// Approve sets (not adds) the allowance of spender over owner's asset.
func (d *LedgerDAO) Approve(ctx context.Context, owner, spender, asset string, amount domain.Amount) (Allowance, error) {
	var allowance Allowance

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := lockForUpdate(tx).
			First(&allowance, "owner_address = ? AND spender_address = ? AND asset = ?", owner, spender, asset)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return result.Error
			}
			allowance = Allowance{
				OwnerAddress:   owner,
				SpenderAddress: spender,
				Asset:          asset,
				Amount:         amount,
			}
			return tx.Create(&allowance).Error
		}

		allowance.Amount = amount
		return tx.Save(&allowance).Error
	})
	if err != nil {
		return Allowance{}, err
	}

	return allowance, nil
}

func (d *LedgerDAO) FindBalance(ctx context.Context, address, asset string) (Balance, error) {
	var balance Balance

	result := d.db.WithContext(ctx).First(&balance, "address = ? AND asset = ?", address, asset)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			// An account that never received the asset holds zero of it.
			return Balance{Address: address, Asset: asset}, nil
		}

		return Balance{}, result.Error
	}

	return balance, nil
}

func (d *LedgerDAO) FindAllowance(ctx context.Context, owner, spender, asset string) (Allowance, error) {
	var allowance Allowance

	result := d.db.WithContext(ctx).
		First(&allowance, "owner_address = ? AND spender_address = ? AND asset = ?", owner, spender, asset)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Allowance{OwnerAddress: owner, SpenderAddress: spender, Asset: asset}, nil
		}

		return Allowance{}, result.Error
	}

	return allowance, nil
}

// creditBalance adds amount to the (address, asset) balance inside tx.
func creditBalance(tx *gorm.DB, address, asset string, amount domain.Amount) error {
	var balance Balance

	result := lockForUpdate(tx).First(&balance, "address = ? AND asset = ?", address, asset)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		balance = Balance{Address: address, Asset: asset, Amount: amount}
		return tx.Create(&balance).Error
	}

	balance.Amount = balance.Amount.Add(amount)
	return tx.Save(&balance).Error
}

// debitBalance removes amount from the (address, asset) balance inside tx,
// failing with domain.ErrInsufficientFunds when the balance cannot cover it.
func debitBalance(tx *gorm.DB, address, asset string, amount domain.Amount) error {
	var balance Balance

	result := lockForUpdate(tx).First(&balance, "address = ? AND asset = ?", address, asset)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return domain.ErrInsufficientFunds
		}
		return result.Error
	}

	remaining, ok := balance.Amount.Sub(amount)
	if !ok {
		return domain.ErrInsufficientFunds
	}

	balance.Amount = remaining
	return tx.Save(&balance).Error
}
