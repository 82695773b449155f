package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a fixed-point monetary value held in minor units (cents).
// It round-trips through JSON as a string with two decimal places so no
// floating-point representation ever touches a budget or bid amount.
type Amount int64

var ErrInvalidAmount = errors.New("invalid amount")

// maxAmountUnits caps the whole-currency part at 10 digits, matching the
// 12-digit, 2-decimal columns budgets and bids persist to. It also keeps
// units*100+cents far away from int64 overflow.
const maxAmountUnits = 9_999_999_999

// ParseAmount converts a decimal string with at most two fractional digits
// into an Amount. "1234.5" and "1234.50" both parse to 123450 cents.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" || len(fracPart) > 2 {
		return 0, ErrInvalidAmount
	}

	units, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil || units > maxAmountUnits {
		return 0, ErrInvalidAmount
	}

	var cents uint64
	if fracPart != "" {
		for len(fracPart) < 2 {
			fracPart += "0"
		}
		cents, err = strconv.ParseUint(fracPart, 10, 8)
		if err != nil {
			return 0, ErrInvalidAmount
		}
	}

	v := int64(units*100 + cents)
	if neg {
		v = -v
	}
	return Amount(v), nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool { return a > 0 }

// String renders the amount with exactly two decimal places. The magnitude is
// taken in uint64 space so even math.MinInt64 negates without overflow.
func (a Amount) String() string {
	sign := ""
	u := uint64(a)
	if a < 0 {
		sign = "-"
		u = -u
	}
	return fmt.Sprintf("%s%d.%02d", sign, u/100, u%100)
}

// MarshalJSON renders the amount as a quoted 2-decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON accepts both a quoted decimal string and a bare number.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
