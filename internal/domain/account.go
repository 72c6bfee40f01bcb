package domain

import "time"

// User is an authenticated caller. Address is the wallet the registry mints
// to and the ledger account every payment is drawn from.
type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Balance is the holding of one address in one asset.
type Balance struct {
	Address string `json:"address"`
	Asset   string `json:"asset"`
	Amount  Amount `json:"amount"`
}

// Allowance lets a spender pull up to Amount of Asset from Owner's balance.
type Allowance struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Asset   string `json:"asset"`
	Amount  Amount `json:"amount"`
}
