package pricing

import (
	"math"
	"strconv"
	"strings"
)

// Placeholder rendered when no meaningful amount exists
const Placeholder = "—"

// FormatPrice renders an optional amount for display. A nil pointer or a
// non-finite value renders the placeholder dash rather than failing.
func FormatPrice(amount *float64) string {
	if amount == nil {
		return Placeholder
	}
	return FormatAmount(*amount)
}

// FormatAmount renders an amount with two fraction digits, comma decimal
// separator, dot thousands grouping and a trailing euro sign: 1234.5
// becomes "1.234,50 €". Non-finite values render the placeholder dash.
func FormatAmount(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Placeholder
	}

	fixed := strconv.FormatFloat(amount, 'f', 2, 64)

	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	b.WriteString(" €")

	return b.String()
}
