package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/tradecard/cardmint/internal/domain"
)

type DepositRequest struct {
	// Asset is domain.NativeAsset or a token contract address.
	Asset  string        `json:"asset" binding:"required"`
	Amount domain.Amount `json:"amount"`
}

func (req *DepositRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Asset, validation.Required),
		validation.Field(&req.Amount, validation.Required),
	)
}

type ApproveRequest struct {
	Asset  string        `json:"asset" binding:"required"`
	Amount domain.Amount `json:"amount"`
}

func (req *ApproveRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Asset, validation.Required),
		validation.Field(&req.Amount, validation.Required),
	)
}
