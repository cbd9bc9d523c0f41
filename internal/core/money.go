// Package core holds the canonical ledger record model and the pure
// functions that parse and aggregate it.
//
// This file contains money parsing and formatting. Amounts are kept as
// int64 cents throughout; floats only appear at the display and wire
// boundaries.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in minor units (cents).
type Money struct {
	Cents int64
}

// Validate rejects zero and negative amounts. A ledger record never
// carries a non-positive amount; refunds are recorded as income.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third fractional digit. Both dot and comma separators
// are accepted. Only strictly positive values parse.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// MoneyFromFloat converts a wire-format amount (e.g. from the classifier
// JSON) to cents with half-up rounding. Negative input maps to negative
// cents; validation happens later.
func MoneyFromFloat(f float64) Money {
	if f < 0 {
		return Money{Cents: int64(f*100.0 - 0.5)}
	}
	return Money{Cents: int64(f*100.0 + 0.5)}
}

// FormatAmount renders an amount for replies: integral values have no
// decimal point, everything else shows at most two fractional digits.
//
//	FormatAmount(Money{Cents: 12000}) == "120"
//	FormatAmount(Money{Cents: 4550}) == "45.5"
func FormatAmount(m Money) string {
	if m.Cents%100 == 0 {
		return strconv.FormatInt(m.Cents/100, 10)
	}
	s := strconv.FormatFloat(float64(m.Cents)/100.0, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func (m Money) String() string {
	return FormatAmount(m)
}
