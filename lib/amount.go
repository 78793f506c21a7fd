package lib

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a money amount typed by a person. Both "3,50" and "3.50" are
// accepted. When both separators appear the last one marks the decimals, so
// "1,234.50" and "1.234,50" are the same amount. A separator that repeats is a
// thousands separator.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)

	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return amount, nil
}
