package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a form value to a float64. Thousands separators are accepted;
// NaN and infinities are not.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse '%s' as amount: %w", s, err)
	}
	if !IsFiniteAmount(amount) {
		return 0, fmt.Errorf("amount '%s' is not a finite number", s)
	}
	return amount, nil
}

// IsFiniteAmount reports whether amount can be stored and rendered as JSON.
func IsFiniteAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

// FormatAmount renders an amount with two decimals and thousands separators, e.g. 12,500.00.
func FormatAmount(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	raw := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, frac := raw[:len(raw)-3], raw[len(raw)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
