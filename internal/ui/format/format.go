// Package format provides human-readable rendering of token counts,
// dollar amounts, and percentages for the UI layer.
package format

import (
	"fmt"
	"strings"
)

// Tokens renders a token count with K/M suffixes.
// Counts below 1000 render as-is.
func Tokens(n int64) string {
	switch {
	case n >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1fM", float64(n)/1_000_000))
	case n >= 1_000:
		return trimZero(fmt.Sprintf("%.1fK", float64(n)/1_000))
	default:
		return fmt.Sprintf("%d", n)
	}
}

// Cost renders a dollar amount. Amounts of $1,000 and above render
// with thousands separators and no cents.
func Cost(usd float64) string {
	if usd >= 1000 {
		return "$" + groupThousands(fmt.Sprintf("%.0f", usd))
	}
	return fmt.Sprintf("$%.2f", usd)
}

// Percent renders a 0-100 utilization value.
func Percent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

// Credits converts an amount in cents to a dollar string.
func Credits(cents float64) string {
	return Cost(cents / 100)
}

// trimZero drops a trailing ".0" before the suffix: 2.0K -> 2K.
func trimZero(s string) string {
	return strings.Replace(s, ".0", "", 1)
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
