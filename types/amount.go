package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Amount represents a quantity of the shop's in-game currency.
// All arithmetic is integer-only — no floating point.
type Amount int64

// Coins creates an Amount of the given number of coins.
func Coins(n int64) Amount { return Amount(n) }

// Int64 returns the raw coin count.
func (a Amount) Int64() int64 { return int64(a) }

// Arithmetic operations

// Add adds two Amounts.
func (a Amount) Add(other Amount) Amount { return a + other }

// Subtract subtracts another Amount.
func (a Amount) Subtract(other Amount) Amount { return a - other }

// Multiply multiplies the Amount by a quantity.
func (a Amount) Multiply(qty int64) Amount { return Amount(int64(a) * qty) }

// Negate returns the negative of the Amount.
func (a Amount) Negate() Amount { return -a }

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool { return a > 0 }

// IsNegative returns true if the amount is less than zero.
func (a Amount) IsNegative() bool { return a < 0 }

// Covers returns true if the amount is large enough to pay the given price.
func (a Amount) Covers(price Amount) bool { return a >= price }

// Formatting methods

// Format returns the coin count grouped by thousands, without a symbol.
// Example: Coins(250000).Format() == "250,000".
func (a Amount) Format() string {
	isNegative := a < 0
	abs := int64(a)
	if isNegative {
		abs = -abs
	}

	raw := fmt.Sprintf("%d", abs)
	var b strings.Builder
	for i, r := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if isNegative {
		return "-" + b.String()
	}
	return b.String()
}

// String returns a human-readable string with the coin symbol.
// Example: "250,000 coins".
func (a Amount) String() string {
	return a.Format() + " coins"
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount  int64  `json:"amount"`
		Display string `json:"display"`
	}{
		Amount:  int64(a),
		Display: a.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. Accepts either a bare
// integer or the object form produced by MarshalJSON.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount(n)
		return nil
	}

	var obj struct {
		Amount int64 `json:"amount"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = Amount(obj.Amount)
	return nil
}

// SumAmounts calculates the sum of multiple Amounts.
func SumAmounts(values ...Amount) Amount {
	var result Amount
	for _, v := range values {
		result += v
	}
	return result
}
