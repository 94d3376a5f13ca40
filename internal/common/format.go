package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats a float as a dollar amount with comma separators
func FormatMoney(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	s := groupThousands(fmt.Sprintf("%d", whole))

	if negative {
		return fmt.Sprintf("-$%s.%02d", s, cents)
	}
	return fmt.Sprintf("$%s.%02d", s, cents)
}

// FormatSignedMoney formats a dollar amount with +/- prefix
func FormatSignedMoney(v float64) string {
	if v >= 0 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatSignedPct formats a percentage with +/- prefix
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatDecimalMoney formats a decimal amount as dollars with comma separators.
// Domain collections carry money as decimals; this is the display path for them.
func FormatDecimalMoney(d decimal.Decimal) string {
	negative := d.IsNegative()
	abs := d.Abs().StringFixed(2)

	parts := strings.SplitN(abs, ".", 2)
	s := groupThousands(parts[0])

	if negative {
		return fmt.Sprintf("-$%s.%s", s, parts[1])
	}
	return fmt.Sprintf("$%s.%s", s, parts[1])
}

// groupThousands inserts comma separators into a digit string.
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

// currencySymbol returns the display prefix for a currency code.
func currencySymbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "AUD":
		return "A$"
	case "USD":
		return "US$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return "$"
	}
}

// FormatMoneyWithCurrency formats a float as a currency amount with the appropriate symbol.
// AUD -> "A$1,234.56", USD -> "US$1,234.56", unknown -> "$1,234.56".
func FormatMoneyWithCurrency(v float64, currency string) string {
	sym := currencySymbol(currency)
	negative := v < 0
	if negative {
		v = -v
	}
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	s := groupThousands(fmt.Sprintf("%d", whole))

	if negative {
		return fmt.Sprintf("-%s%s.%02d", sym, s, cents)
	}
	return fmt.Sprintf("%s%s.%02d", sym, s, cents)
}
