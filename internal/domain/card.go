package domain

import "time"

// Card is one minted trading card. All fields are immutable once minted;
// there is no burn, records are permanent.
type Card struct {
	TokenID uint64 `json:"token_id"`
	Owner   string `json:"owner"`

	Username string `json:"username"`

	// Fixed-point metrics, scaled by 100 by the client before minting.
	TotalProfitLoss int64  `json:"total_profit_loss"`
	WinRate         uint64 `json:"win_rate"`
	NetWorth        uint64 `json:"net_worth"`

	// Content identifier of the pinned metadata document. May be empty for
	// cards minted by clients that skip the packaging step.
	MetadataCID string `json:"metadata_cid,omitempty"`

	// Set by the registry at mint time, never by the caller.
	MintedAt time.Time `json:"minted_at"`
}

// CardMetadata is the document pinned to the content-addressed storage
// network before minting.
type CardMetadata struct {
	Username        string `json:"username"`
	TotalProfitLoss int64  `json:"totalProfitLoss"`
	WinRate         uint64 `json:"winRate"`
	NetWorth        uint64 `json:"netWorth"`
	ImageURL        string `json:"imageUrl,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}
