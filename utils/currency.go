package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatRupees renders amount with Indian digit grouping.
// Example: 1234567.5 -> "Rs. 12,34,567.50"
func FormatRupees(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	formatted := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(formatted, ".")
	integerPart, decimalPart := parts[0], parts[1]

	// last three digits, then groups of two
	var groups []string
	if len(integerPart) > 3 {
		groups = append(groups, integerPart[len(integerPart)-3:])
		rest := integerPart[:len(integerPart)-3]
		for len(rest) > 2 {
			groups = append([]string{rest[len(rest)-2:]}, groups...)
			rest = rest[:len(rest)-2]
		}
		if rest != "" {
			groups = append([]string{rest}, groups...)
		}
	} else {
		groups = []string{integerPart}
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%sRs. %s.%s", sign, strings.Join(groups, ","), decimalPart)
}
