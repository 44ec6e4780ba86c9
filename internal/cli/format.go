// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CurrencySymbol prefixes every formatted money amount.
const CurrencySymbol = "₽"

// FormatNumber groups thousands with a space, ru-RU style.
// e.g., 1234567 -> "1 234 567"
func FormatNumber(n int64) string {
	return groupDigits(n, ' ')
}

// FormatCurrency formats a money amount with two decimals and comma grouping.
// e.g., 1234.5 -> "₽1,234.50"
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	return fmt.Sprintf("%s%s%s.%02d", sign, CurrencySymbol, groupDigits(whole, ','), frac)
}

// FormatPercent formats a value that is already a percentage.
// e.g., 42.345 -> "42.3%"
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatDate renders a YYYY-MM-DD or RFC3339 date as DD.MM.YYYY.
// Unparseable input is returned unchanged.
func FormatDate(s string) string {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("02.01.2006")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("02.01.2006")
	}
	return s
}

// FormatShortDate renders a YYYY-MM-DD date as DD.MM, for narrow axes.
func FormatShortDate(s string) string {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("02.01")
	}
	return s
}

// FormatDelta formats a money delta with an explicit sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatCurrency(delta)
	}
	return FormatCurrency(delta)
}

func groupDigits(n int64, sep byte) string {
	if n < 0 {
		return "-" + groupDigits(-n, sep)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(sep)
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
