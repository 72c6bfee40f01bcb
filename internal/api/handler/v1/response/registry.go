package response

import (
	"github.com/tradecard/cardmint/internal/domain"
)

type MintResponse struct {
	TokenID uint64      `json:"token_id"`
	Card    domain.Card `json:"card"`
}

type WithdrawResponse struct {
	Token  string        `json:"token"`
	Amount domain.Amount `json:"amount"`
}

type SignupResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
