package domain

import "errors"

// Registry error taxonomy. The registry never partially commits: any of these
// raised mid-call rolls the whole call back.
var (
	ErrInsufficientPayment = errors.New("payment below the native price")
	ErrTokenNotAccepted    = errors.New("token is not accepted for payment")
	ErrPriceNotSet         = errors.New("token price is not set")
	ErrTokenTransferFailed = errors.New("token transfer failed")
	ErrCardNotFound        = errors.New("card not found")
	ErrUnauthorized        = errors.New("caller is not the registry owner")
	ErrInvalidPrice        = errors.New("price must be non-zero")
	ErrInvalidToken        = errors.New("token address must not be the zero address")
	ErrTokenNotConfigured  = errors.New("token is not configured")
	ErrInvalidTreasury     = errors.New("treasury must not be the zero address")
	ErrNothingToWithdraw   = errors.New("nothing to withdraw")
	ErrNothingToRecover    = errors.New("nothing to recover")
	ErrInsufficientFunds   = errors.New("insufficient funds")
)
