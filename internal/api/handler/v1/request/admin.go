package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/tradecard/cardmint/internal/domain"
)

type SetNativePriceRequest struct {
	Price domain.Amount `json:"price"`
}

func (req *SetNativePriceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Price, validation.Required),
	)
}

type SetTokenRequest struct {
	Address string        `json:"address" binding:"required"`
	Price   domain.Amount `json:"price"`
}

func (req *SetTokenRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Address, validation.Required, validation.Length(3, 64)),
		validation.Field(&req.Price, validation.Required),
	)
}

type UpdateTokenPriceRequest struct {
	Price domain.Amount `json:"price"`
}

func (req *UpdateTokenPriceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Price, validation.Required),
	)
}

type SetTreasuryRequest struct {
	Address string `json:"address" binding:"required"`
}

func (req *SetTreasuryRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Address, validation.Required, validation.Length(3, 64)),
	)
}
