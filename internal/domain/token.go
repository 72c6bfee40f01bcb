package domain

import "strings"

// NativeAsset is the ledger key for the chain's base settlement asset.
const NativeAsset = "native"

type PaymentMethod string

const (
	PaymentNative PaymentMethod = "native"
	PaymentToken  PaymentMethod = "token"
)

// AcceptedToken is one entry of the registry's token acceptance set.
// Invariant: Accepted == false implies Price is zero.
type AcceptedToken struct {
	Address  string `json:"address"`
	Accepted bool   `json:"accepted"`
	Price    Amount `json:"price"`
}

// PaymentPlan is the client-side resolution of how a mint will be paid.
type PaymentPlan struct {
	Method        PaymentMethod `json:"method"`
	Asset         string        `json:"asset"`
	Price         Amount        `json:"price"`
	NeedsApproval bool          `json:"needs_approval"`
}

// ResolvePayment decides between the native path and the token path.
// For the token path the token must be accepted with a non-zero price, and
// an approval step is required when the current allowance to the registry
// does not cover the price.
func ResolvePayment(method PaymentMethod, nativePrice Amount, token AcceptedToken, allowance Amount) (PaymentPlan, error) {
	if method == PaymentNative {
		return PaymentPlan{
			Method: PaymentNative,
			Asset:  NativeAsset,
			Price:  nativePrice,
		}, nil
	}

	if !token.Accepted {
		return PaymentPlan{}, ErrTokenNotAccepted
	}
	if token.Price.IsZero() {
		return PaymentPlan{}, ErrPriceNotSet
	}

	return PaymentPlan{
		Method:        PaymentToken,
		Asset:         NormalizeAddress(token.Address),
		Price:         token.Price,
		NeedsApproval: allowance.Cmp(token.Price) < 0,
	}, nil
}

// NormalizeAddress lowercases a hex address so map and column lookups are
// case-insensitive.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// IsZeroAddress reports whether addr is empty or the all-zero hex address.
func IsZeroAddress(addr string) bool {
	addr = NormalizeAddress(addr)
	if addr == "" {
		return true
	}
	stripped := strings.TrimPrefix(addr, "0x")
	if stripped == "" {
		return true
	}
	return strings.Trim(stripped, "0") == ""
}
