package format

import (
	"math"
	"testing"
	"time"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234.5, "₹ 1,234.50"},
		{0, "₹ 0.00"},
		{50, "₹ 50.00"},
		{999, "₹ 999.00"},
		{1000, "₹ 1,000.00"},
		{123456.78, "₹ 1,23,456.78"},
		{12345678.9, "₹ 1,23,45,678.90"},
		{-50, "₹ 50.00"}, // sign only shown when requested
	}
	for _, tt := range tests {
		if got := Currency(tt.in); got != tt.want {
			t.Errorf("Currency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCurrencySigned(t *testing.T) {
	if got := CurrencySigned(-50, true); got != "- ₹ 50.00" {
		t.Errorf("CurrencySigned(-50, true) = %q, want %q", got, "- ₹ 50.00")
	}
	if got := CurrencySigned(1234.5, true); got != "+ ₹ 1,234.50" {
		t.Errorf("CurrencySigned(1234.5, true) = %q, want %q", got, "+ ₹ 1,234.50")
	}
	if got := CurrencySigned(math.NaN(), true); got != "₹ --.--" {
		t.Errorf("CurrencySigned(NaN) = %q, want placeholder", got)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in       float64
		decimals int
		want     string
	}{
		{4.166, 2, "+4.17%"},
		{-2, 2, "-2.00%"},
		{0, 2, "+0.00%"},
		{1.5, 1, "+1.5%"},
	}
	for _, tt := range tests {
		if got := Percent(tt.in, tt.decimals); got != tt.want {
			t.Errorf("Percent(%v, %d) = %q, want %q", tt.in, tt.decimals, got, tt.want)
		}
	}
}

func TestNumber(t *testing.T) {
	if got := Number(1234567); got != "12,34,567" {
		t.Errorf("Number(1234567) = %q, want 12,34,567", got)
	}
	if got := Number(-4500); got != "-4,500" {
		t.Errorf("Number(-4500) = %q, want -4,500", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Reliance Industries Limited", 8); got != "Reliance..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("TCS", 8); got != "TCS" {
		t.Errorf("Truncate should not touch short text, got %q", got)
	}
	// rune-safe
	if got := Truncate("₹₹₹₹₹", 2); got != "₹₹..." {
		t.Errorf("Truncate not rune safe: %q", got)
	}
}

func TestDate(t *testing.T) {
	if got := Date("2026-01-05T10:30:00Z"); got != "5 Jan 2026" {
		t.Errorf("Date(RFC3339) = %q, want 5 Jan 2026", got)
	}
	if got := Date("2026-01-05"); got != "5 Jan 2026" {
		t.Errorf("Date(date-only) = %q, want 5 Jan 2026", got)
	}
	if got := Date("not a date"); got != "N/A" {
		t.Errorf("Date(invalid) = %q, want N/A", got)
	}
	if got := Date(""); got != "N/A" {
		t.Errorf("Date(empty) = %q, want N/A", got)
	}
	if got := DateTime(time.Time{}); got != "N/A" {
		t.Errorf("DateTime(zero) = %q, want N/A", got)
	}
}
