package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tradecard/cardmint/internal/domain"
)

// ErrMintConflict is returned when two mints race for the same token id.
// The losing call rolls back; callers may simply retry.
var ErrMintConflict = errors.New("concurrent mint, retry")

// RegistryConfig is the single mutable configuration row of the registry:
// owner, treasury, native price and the token id counter.
type RegistryConfig struct {
	ID uint `gorm:"primaryKey"`

	OwnerAddress    string `gorm:"not null"`
	RegistryAddress string `gorm:"not null"`
	TreasuryAddress string `gorm:"not null"`

	NativePrice domain.Amount `gorm:"not null"`

	// Next token id to assign. Token ids are sequential and start at 1.
	NextTokenID uint64 `gorm:"not null"`

	UpdatedAt time.Time
}

type AcceptedToken struct {
	Address string `gorm:"primaryKey"`

	Accepted bool          `gorm:"not null"`
	Price    domain.Amount `gorm:"not null"`

	UpdatedAt time.Time
}

type Card struct {
	TokenID uint64 `gorm:"primaryKey;autoIncrement:false"`

	OwnerAddress string `gorm:"index;not null"`
	Username     string `gorm:"not null"`

	TotalProfitLoss int64  `gorm:"not null"`
	WinRate         uint64 `gorm:"not null"`
	NetWorth        uint64 `gorm:"not null"`

	MetadataCID string

	MintedAt time.Time `gorm:"not null"`
}

type Event struct {
	ID uint `gorm:"primaryKey"`

	Type    string `gorm:"index;not null"`
	Payload string `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null"`
}

// MintParams carries the caller-supplied part of a mint call. Metric values
// arrive already scaled by 100 per the registry's fixed-point convention.
type MintParams struct {
	Caller   string
	Username string

	TotalProfitLoss int64
	WinRate         uint64
	NetWorth        uint64

	MetadataCID string
}

type RegistryDAO struct {
	db *gorm.DB
}

func NewRegistryDAO(db *gorm.DB) *RegistryDAO {
	return &RegistryDAO{
		db: db,
	}
}

// EnsureConfig seeds the configuration row on first boot. An existing row is
// left untouched so runtime owner changes survive restarts.
func (d *RegistryDAO) EnsureConfig(owner, registry, treasury, nativePrice string) error {
	price, err := domain.AmountFromString(nativePrice)
	if err != nil {
		return err
	}
	if price.IsZero() {
		return domain.ErrInvalidPrice
	}

	var existing RegistryConfig
	err = d.db.First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return d.db.Create(&RegistryConfig{
		OwnerAddress:    domain.NormalizeAddress(owner),
		RegistryAddress: domain.NormalizeAddress(registry),
		TreasuryAddress: domain.NormalizeAddress(treasury),
		NativePrice:     price,
		NextTokenID:     1,
	}).Error
}

func (d *RegistryDAO) GetConfig(ctx context.Context) (RegistryConfig, error) {
	var cfg RegistryConfig

	result := d.db.WithContext(ctx).First(&cfg)
	if result.Error != nil {
		return RegistryConfig{}, result.Error
	}

	return cfg, nil
}

func (d *RegistryDAO) UpdateNativePrice(ctx context.Context, price domain.Amount) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cfg RegistryConfig
		if err := lockForUpdate(tx).First(&cfg).Error; err != nil {
			return err
		}

		cfg.NativePrice = price
		if err := tx.Save(&cfg).Error; err != nil {
			return err
		}

		return insertEvent(tx, domain.NewNativePriceUpdatedEvent(price))
	})
}

func (d *RegistryDAO) UpdateTreasury(ctx context.Context, treasury string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cfg RegistryConfig
		if err := lockForUpdate(tx).First(&cfg).Error; err != nil {
			return err
		}

		cfg.TreasuryAddress = domain.NormalizeAddress(treasury)
		return tx.Save(&cfg).Error
	})
}

// UpsertToken marks a token accepted at the given price. Calling it twice
// with the same arguments is a no-op the second time.
func (d *RegistryDAO) UpsertToken(ctx context.Context, address string, price domain.Amount) error {
	address = domain.NormalizeAddress(address)

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token AcceptedToken
		result := lockForUpdate(tx).First(&token, "address = ?", address)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return result.Error
			}
			token = AcceptedToken{Address: address, Accepted: true, Price: price}
			if err := tx.Create(&token).Error; err != nil {
				return err
			}
		} else {
			token.Accepted = true
			token.Price = price
			if err := tx.Save(&token).Error; err != nil {
				return err
			}
		}

		return insertEvent(tx, domain.NewTokenConfiguredEvent(address, price))
	})
}

func (d *RegistryDAO) UpdateTokenPrice(ctx context.Context, address string, price domain.Amount) error {
	address = domain.NormalizeAddress(address)

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token AcceptedToken
		result := lockForUpdate(tx).First(&token, "address = ?", address)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domain.ErrTokenNotConfigured
			}
			return result.Error
		}
		if !token.Accepted {
			return domain.ErrTokenNotConfigured
		}

		token.Price = price
		if err := tx.Save(&token).Error; err != nil {
			return err
		}

		return insertEvent(tx, domain.NewTokenConfiguredEvent(address, price))
	})
}

// RemoveToken clears acceptance and zeroes the price, keeping the invariant
// that a non-accepted token always has price zero.
func (d *RegistryDAO) RemoveToken(ctx context.Context, address string) error {
	address = domain.NormalizeAddress(address)

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token AcceptedToken
		result := lockForUpdate(tx).First(&token, "address = ?", address)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domain.ErrTokenNotConfigured
			}
			return result.Error
		}
		if !token.Accepted {
			return domain.ErrTokenNotConfigured
		}

		token.Accepted = false
		token.Price = domain.Amount{}
		if err := tx.Save(&token).Error; err != nil {
			return err
		}

		return insertEvent(tx, domain.NewTokenRemovedEvent(address))
	})
}

func (d *RegistryDAO) FindToken(ctx context.Context, address string) (AcceptedToken, error) {
	var token AcceptedToken

	result := d.db.WithContext(ctx).First(&token, "address = ?", domain.NormalizeAddress(address))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return AcceptedToken{}, domain.ErrTokenNotConfigured
		}

		return AcceptedToken{}, result.Error
	}

	return token, nil
}

func (d *RegistryDAO) ListAcceptedTokens(ctx context.Context) ([]AcceptedToken, error) {
	var tokens []AcceptedToken

	result := d.db.WithContext(ctx).Where("accepted = ?", true).Order("address").Find(&tokens)
	if result.Error != nil {
		return nil, result.Error
	}

	return tokens, nil
}

// MintWithNative validates the payment, assigns the next sequential token id,
// creates the card record and settles balances, all in one transaction:
// payment is debited from the caller, the price is credited to the registry
// and any excess is refunded to the caller.
func (d *RegistryDAO) MintWithNative(ctx context.Context, params MintParams, payment domain.Amount) (Card, error) {
	var card Card

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cfg RegistryConfig
		if err := lockForUpdate(tx).First(&cfg).Error; err != nil {
			return err
		}

		if payment.Cmp(cfg.NativePrice) < 0 {
			return domain.ErrInsufficientPayment
		}

		caller := domain.NormalizeAddress(params.Caller)
		if err := debitBalance(tx, caller, domain.NativeAsset, payment); err != nil {
			return err
		}
		if err := creditBalance(tx, cfg.RegistryAddress, domain.NativeAsset, cfg.NativePrice); err != nil {
			return err
		}
		if refund, ok := payment.Sub(cfg.NativePrice); ok && !refund.IsZero() {
			if err := creditBalance(tx, caller, domain.NativeAsset, refund); err != nil {
				return err
			}
		}

		var err error
		card, err = createCard(tx, cfg, params)
		return err
	})
	if err != nil {
		return Card{}, err
	}

	return card, nil
}

// MintWithToken pulls exactly the token's price from the caller to the
// treasury via the caller's allowance to the registry, then creates the card
// the same way the native path does. No refund concept applies.
func (d *RegistryDAO) MintWithToken(ctx context.Context, tokenAddress string, params MintParams) (Card, error) {
	var card Card

	tokenAddress = domain.NormalizeAddress(tokenAddress)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token AcceptedToken
		result := lockForUpdate(tx).First(&token, "address = ?", tokenAddress)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domain.ErrTokenNotAccepted
			}
			return result.Error
		}
		if !token.Accepted {
			return domain.ErrTokenNotAccepted
		}
		if token.Price.IsZero() {
			return domain.ErrPriceNotSet
		}

		var cfg RegistryConfig
		if err := lockForUpdate(tx).First(&cfg).Error; err != nil {
			return err
		}

		caller := domain.NormalizeAddress(params.Caller)
		if err := spendAllowance(tx, caller, cfg.RegistryAddress, tokenAddress, token.Price); err != nil {
			return err
		}
		if err := debitBalance(tx, caller, tokenAddress, token.Price); err != nil {
			if errors.Is(err, domain.ErrInsufficientFunds) {
				return domain.ErrTokenTransferFailed
			}
			return err
		}
		if err := creditBalance(tx, cfg.TreasuryAddress, tokenAddress, token.Price); err != nil {
			return err
		}

		var err error
		card, err = createCard(tx, cfg, params)
		return err
	})
	if err != nil {
		return Card{}, err
	}

	return card, nil
}

// WithdrawNative sweeps the registry's entire native balance to the treasury.
func (d *RegistryDAO) WithdrawNative(ctx context.Context) (domain.Amount, error) {
	var withdrawn domain.Amount

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cfg RegistryConfig
		if err := lockForUpdate(tx).First(&cfg).Error; err != nil {
			return err
		}

		var balance Balance
		result := lockForUpdate(tx).
			First(&balance, "address = ? AND asset = ?", cfg.RegistryAddress, domain.NativeAsset)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domain.ErrNothingToWithdraw
			}
			return result.Error
		}
		if balance.Amount.IsZero() {
			return domain.ErrNothingToWithdraw
		}

		withdrawn = balance.Amount
		if err := debitBalance(tx, cfg.RegistryAddress, domain.NativeAsset, withdrawn); err != nil {
			return err
		}
		if err := creditBalance(tx, cfg.TreasuryAddress, domain.NativeAsset, withdrawn); err != nil {
			return err
		}

		return insertEvent(tx, domain.NewPaymentWithdrawnEvent(domain.NativeAsset, withdrawn))
	})
	if err != nil {
		return domain.Amount{}, err
	}

	return withdrawn, nil
}

// RecoverToken sweeps any balance of an arbitrary token held by the registry
// to the treasury.
func (d *RegistryDAO) RecoverToken(ctx context.Context, tokenAddress string) (domain.Amount, error) {
	var recovered domain.Amount

	tokenAddress = domain.NormalizeAddress(tokenAddress)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cfg RegistryConfig
		if err := lockForUpdate(tx).First(&cfg).Error; err != nil {
			return err
		}

		var balance Balance
		result := lockForUpdate(tx).
			First(&balance, "address = ? AND asset = ?", cfg.RegistryAddress, tokenAddress)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domain.ErrNothingToRecover
			}
			return result.Error
		}
		if balance.Amount.IsZero() {
			return domain.ErrNothingToRecover
		}

		recovered = balance.Amount
		if err := debitBalance(tx, cfg.RegistryAddress, tokenAddress, recovered); err != nil {
			return err
		}
		if err := creditBalance(tx, cfg.TreasuryAddress, tokenAddress, recovered); err != nil {
			return err
		}

		return insertEvent(tx, domain.NewPaymentWithdrawnEvent(tokenAddress, recovered))
	})
	if err != nil {
		return domain.Amount{}, err
	}

	return recovered, nil
}

func (d *RegistryDAO) FindCard(ctx context.Context, tokenID uint64) (Card, error) {
	var card Card

	result := d.db.WithContext(ctx).First(&card, "token_id = ?", tokenID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Card{}, domain.ErrCardNotFound
		}

		return Card{}, result.Error
	}

	return card, nil
}

func (d *RegistryDAO) FindCardsByOwner(ctx context.Context, owner string) ([]Card, error) {
	var cards []Card

	result := d.db.WithContext(ctx).
		Where("owner_address = ?", domain.NormalizeAddress(owner)).
		Order("token_id DESC").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}

	return cards, nil
}

func (d *RegistryDAO) ListEvents(ctx context.Context, limit int) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// createCard assigns the next sequential token id, writes the card record
// with the registry-side timestamp and emits the CardMinted event row.
func createCard(tx *gorm.DB, cfg RegistryConfig, params MintParams) (Card, error) {
	card := Card{
		TokenID:         cfg.NextTokenID,
		OwnerAddress:    domain.NormalizeAddress(params.Caller),
		Username:        params.Username,
		TotalProfitLoss: params.TotalProfitLoss,
		WinRate:         params.WinRate,
		NetWorth:        params.NetWorth,
		MetadataCID:     params.MetadataCID,
		MintedAt:        time.Now().UTC(),
	}

	if err := tx.Create(&card).Error; err != nil {
		return Card{}, err
	}

	// Optimistic counter bump: losing a race leaves RowsAffected at zero.
	result := tx.Model(&RegistryConfig{}).
		Where("id = ? AND next_token_id = ?", cfg.ID, cfg.NextTokenID).
		Update("next_token_id", cfg.NextTokenID+1)
	if result.Error != nil {
		return Card{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Card{}, ErrMintConflict
	}

	if err := insertEvent(tx, domain.NewCardMintedEvent(domain.Card{
		TokenID:  card.TokenID,
		Owner:    card.OwnerAddress,
		Username: card.Username,
		MintedAt: card.MintedAt,
	})); err != nil {
		return Card{}, err
	}

	return card, nil
}

// spendAllowance checks and consumes the caller's allowance towards the
// registry. A maxed-out allowance is treated as infinite and not decremented,
// matching the common fungible-token convention.
func spendAllowance(tx *gorm.DB, owner, spender, asset string, amount domain.Amount) error {
	var allowance Allowance

	result := lockForUpdate(tx).
		First(&allowance, "owner_address = ? AND spender_address = ? AND asset = ?", owner, spender, asset)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return domain.ErrTokenTransferFailed
		}
		return result.Error
	}

	if allowance.Amount.Cmp(amount) < 0 {
		return domain.ErrTokenTransferFailed
	}
	if allowance.Amount.Cmp(domain.MaxAmount()) == 0 {
		return nil
	}

	remaining, _ := allowance.Amount.Sub(amount)
	allowance.Amount = remaining
	return tx.Save(&allowance).Error
}

func insertEvent(tx *gorm.DB, event domain.Event) error {
	return tx.Create(&Event{
		Type:    string(event.Type),
		Payload: string(event.Payload),
	}).Error
}
