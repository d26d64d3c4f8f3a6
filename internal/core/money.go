package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered amount into a positive decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// strips grouping spaces, so Czech-formatted input like "1 250,50"
// parses. Signed input is rejected: the sign of a transaction is
// carried by its type, never by the stored amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
