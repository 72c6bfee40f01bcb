package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeWinRate  = errors.New("win rate cannot be negative")
	ErrNegativeNetWorth = errors.New("net worth cannot be negative")
)

var hundred = decimal.NewFromInt(100)

// MetricsSnapshot is the user's off-chain performance figures at the moment
// a mint attempt starts.
type MetricsSnapshot struct {
	Username        string
	TotalProfitLoss decimal.Decimal
	WinRate         decimal.Decimal
	NetWorth        decimal.Decimal
	ImageURL        string
}

// ScaledMetrics is the snapshot converted to the registry's fixed-point
// convention: every value multiplied by 100 and truncated to an integer.
type ScaledMetrics struct {
	TotalProfitLoss int64
	WinRate         uint64
	NetWorth        uint64
}

func (m MetricsSnapshot) Scale() (ScaledMetrics, error) {
	if m.WinRate.IsNegative() {
		return ScaledMetrics{}, ErrNegativeWinRate
	}
	if m.NetWorth.IsNegative() {
		return ScaledMetrics{}, ErrNegativeNetWorth
	}

	return ScaledMetrics{
		TotalProfitLoss: scaleBy100(m.TotalProfitLoss),
		WinRate:         uint64(scaleBy100(m.WinRate)),
		NetWorth:        uint64(scaleBy100(m.NetWorth)),
	}, nil
}

func scaleBy100(d decimal.Decimal) int64 {
	return d.Mul(hundred).Truncate(0).IntPart()
}
