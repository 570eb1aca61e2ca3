// Package format provides display formatting for the dashboard:
// INR currency with Indian digit grouping, signed percentages,
// truncation, and short localized dates.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	currencyPlaceholder = "₹ --.--"
	datePlaceholder     = "N/A"
)

// groupIndian applies Indian digit grouping to a bare integer string:
// the last three digits form one group, the rest split into pairs
// (12,34,567).
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

// Currency formats a value as Indian rupees with two decimals,
// e.g. 1234.5 → "₹ 1,234.50". The sign of the value is not shown;
// use CurrencySigned for an explicit sign prefix.
func Currency(value float64) string {
	return CurrencySigned(value, false)
}

// CurrencySigned formats a value as Indian rupees. With showSign, a
// "+ " or "- " prefix precedes the amount; either way the amount
// itself is rendered as its absolute value.
func CurrencySigned(value float64, showSign bool) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return currencyPlaceholder
	}

	sign := ""
	if showSign {
		if value >= 0 {
			sign = "+ "
		} else {
			sign = "- "
		}
	}

	abs := math.Abs(value)
	whole := fmt.Sprintf("%.2f", abs)
	dot := strings.IndexByte(whole, '.')
	return sign + "₹ " + groupIndian(whole[:dot]) + whole[dot:]
}

// Percent formats a value with an explicit sign and the given number
// of decimal places, e.g. 4.166 → "+4.17%".
func Percent(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return datePlaceholder
	}
	sign := ""
	if value >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.*f%%", sign, decimals, value)
}

// Number formats an integer count with Indian digit grouping.
func Number(value int64) string {
	if value < 0 {
		return "-" + Number(-value)
	}
	return groupIndian(fmt.Sprintf("%d", value))
}

// Truncate shortens text to at most max runes, appending an ellipsis
// when anything was cut.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date renders a timestamp string as a short localized date
// ("2 Jan 2006" style), or "N/A" when the input does not parse.
func Date(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return datePlaceholder
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2 Jan 2006")
		}
	}
	return datePlaceholder
}

// DateTime renders a time.Time as a short localized date, with the
// same placeholder rule for the zero value.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return datePlaceholder
	}
	return t.Format("2 Jan 2006")
}
