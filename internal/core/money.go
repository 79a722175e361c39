// Package core holds the domain model of the estate ledger: calendar dates,
// money, estates, workers, expenses and sales.
//
// This file contains money parsing and conversion. Amounts are stored as
// int64 paise; floats appear only at the API boundary, where the wire format
// is a plain decimal number of rupees.
package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in paise (hundredths of a rupee).
type Money struct {
	Paise int64
}

var ErrInvalidAmount = errors.New("invalid amount")

// ParseDecimalToPaise converts a decimal string to paise with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Negative and zero amounts are rejected: every recorded expense
// or sale line carries a positive amount, signs come from the record kind.
func ParseDecimalToPaise(s string) (int64, error) {
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
	var fracPaise int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracPaise = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracPaise += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracPaise++
			}
		}
	}
	paise := iv*100 + fracPaise
	if paise <= 0 {
		return 0, ErrInvalidAmount
	}
	return paise, nil
}

// MoneyFromRupees converts a decimal rupee amount from the wire into paise,
// rounding half away from zero.
func MoneyFromRupees(rupees float64) Money {
	return Money{Paise: int64(math.Round(rupees * 100))}
}

// Rupees returns the rupee value as a float64 for the JSON boundary.
// Use paise for arithmetic.
func (m Money) Rupees() float64 {
	return float64(m.Paise) / 100.0
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Paise: m.Paise + other.Paise}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{Paise: m.Paise - other.Paise}
}

// Validate rejects non-positive amounts.
func (m Money) Validate() error {
	if m.Paise <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
