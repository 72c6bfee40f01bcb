package domain

import (
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

// Amount is an unsigned 256-bit asset amount, mirroring the width used for
// token prices, balances and allowances on the ledger. It serializes to a
// decimal string both in JSON and in the database.
type Amount struct {
	n uint256.Int
}

func NewAmount(v uint64) Amount {
	var a Amount
	a.n.SetUint64(v)
	return a
}

func AmountFromString(s string) (Amount, error) {
	n, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q -> %w", s, err)
	}
	return Amount{n: *n}, nil
}

// MaxAmount is the largest representable amount, used by clients as the
// allowance grant so repeated mints need no further approvals.
func MaxAmount() Amount {
	var a Amount
	a.n.SetAllOne()
	return a
}

func (a Amount) Add(b Amount) Amount {
	var z Amount
	z.n.Add(&a.n, &b.n)
	return z
}

// Sub returns a-b. The second return value is false when b exceeds a.
func (a Amount) Sub(b Amount) (Amount, bool) {
	var z Amount
	_, underflow := z.n.SubOverflow(&a.n, &b.n)
	return z, !underflow
}

func (a Amount) Cmp(b Amount) int {
	return a.n.Cmp(&b.n)
}

func (a Amount) IsZero() bool {
	return a.n.IsZero()
}

func (a Amount) String() string {
	return a.n.Dec()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.n.Dec())), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		// Tolerate bare numbers.
		s = string(data)
	}
	parsed, err := AmountFromString(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Amount) Value() (driver.Value, error) {
	return a.n.Dec(), nil
}

func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Amount{}
		return nil
	case string:
		parsed, err := AmountFromString(v)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	case []byte:
		parsed, err := AmountFromString(string(v))
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	case int64:
		if v < 0 {
			return fmt.Errorf("cannot scan negative value %d into Amount", v)
		}
		*a = NewAmount(uint64(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Amount", src)
	}
}

// GormDataType keeps amounts lossless in Postgres. SQLite (used in tests)
// ignores the precision and stores the decimal string as-is.
func (Amount) GormDataType() string {
	return "numeric(78,0)"
}
