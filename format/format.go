// Package format renders market values for display.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const compactThreshold = 1_000_000

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "CN¥",
	"INR": "₹",
	"KRW": "₩",
	"AUD": "A$",
	"CAD": "CA$",
	"BRL": "R$",
}

var compactUnits = []struct {
	suffix string
	value  decimal.Decimal
}{
	{"T", decimal.New(1, 12)},
	{"B", decimal.New(1, 9)},
	{"M", decimal.New(1, 6)},
}

// Trend of a signed change
const (
	TrendUp   = "up"
	TrendDown = "down"
)

// Price formats value in currency: 2 decimals, up to 6 below 1, compact above one million.
// Unknown currencies are prefixed with their uppercase code.
func Price(value float64, currency string) string {
	d := decimal.NewFromFloat(value)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	var number string
	switch {
	case d.GreaterThan(decimal.NewFromInt(compactThreshold)):
		number = compact(d, 2, 2)
	case d.LessThan(decimal.NewFromInt(1)):
		number = fixed(d, 2, 6)
	default:
		number = fixed(d, 2, 2)
	}

	code := strings.ToUpper(currency)
	if symbol, ok := currencySymbols[code]; ok {
		return sign + symbol + number
	}
	return sign + code + " " + number
}

// Percentage formats a signed percentage with 2 decimals, e.g. +5.50%
func Percentage(value float64) string {
	d := decimal.NewFromFloat(value)
	prefix := ""
	if !d.IsNegative() {
		prefix = "+"
	}
	return prefix + d.StringFixed(2) + "%"
}

// Number formats a plain number with up to 2 decimals, compact above one million
func Number(value float64) string {
	d := decimal.NewFromFloat(value)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	if d.GreaterThan(decimal.NewFromInt(compactThreshold)) {
		return sign + compact(d, 0, 2)
	}
	return sign + fixed(d, 0, 2)
}

// Date formats a day as "Jan 2, 2006"
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Trend returns TrendUp for non-negative changes and TrendDown otherwise
func Trend(value float64) string {
	if value >= 0 {
		return TrendUp
	}
	return TrendDown
}

// fixed rounds d to maxDecimals, drops trailing zeros down to minDecimals and groups thousands
func fixed(d decimal.Decimal, minDecimals, maxDecimals int32) string {
	rounded := d.Round(maxDecimals).StringFixed(maxDecimals)

	intPart, fracPart, _ := strings.Cut(rounded, ".")
	for int32(len(fracPart)) > minDecimals && strings.HasSuffix(fracPart, "0") {
		fracPart = fracPart[:len(fracPart)-1]
	}

	result := groupThousands(intPart)
	if fracPart != "" {
		result += "." + fracPart
	}
	return result
}

// compact picks the largest unit whose rounded quotient is at least one, so 999,999,999.999 becomes 1.00B
func compact(d decimal.Decimal, minDecimals, maxDecimals int32) string {
	one := decimal.NewFromInt(1)
	for _, unit := range compactUnits {
		scaled := d.Div(unit.value).Round(maxDecimals)
		if scaled.GreaterThanOrEqual(one) {
			return fixed(scaled, minDecimals, maxDecimals) + unit.suffix
		}
	}
	return fixed(d, minDecimals, maxDecimals)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
