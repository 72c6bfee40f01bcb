package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/tradecard/cardmint/internal/domain"
)

type MintNativeRequest struct {
	Username        string        `json:"username" binding:"required"`
	TotalProfitLoss int64         `json:"total_profit_loss"`
	WinRate         uint64        `json:"win_rate"`
	NetWorth        uint64        `json:"net_worth"`
	MetadataCID     string        `json:"metadata_cid"`
	Payment         domain.Amount `json:"payment"`
}

func (req *MintNativeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Payment, validation.Required),
	)
}

type MintTokenRequest struct {
	TokenAddress    string `json:"token_address" binding:"required"`
	Username        string `json:"username" binding:"required"`
	TotalProfitLoss int64  `json:"total_profit_loss"`
	WinRate         uint64 `json:"win_rate"`
	NetWorth        uint64 `json:"net_worth"`
	MetadataCID     string `json:"metadata_cid"`
}

func (req *MintTokenRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TokenAddress, validation.Required, validation.Length(3, 64)),
		validation.Field(&req.Username, validation.Required, validation.Length(1, 50)),
	)
}
