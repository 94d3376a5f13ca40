package common

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1234.56, "$1,234.56"},
		{999.995, "$1,000.00"},
		{1000000, "$1,000,000.00"},
		{-42.5, "-$42.50"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.in); got != tc.want {
			t.Errorf("FormatMoney(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestFormatSignedMoney(t *testing.T) {
	if got := FormatSignedMoney(10); got != "+$10.00" {
		t.Errorf("expected +$10.00, got %s", got)
	}
	if got := FormatSignedMoney(-10); got != "-$10.00" {
		t.Errorf("expected -$10.00, got %s", got)
	}
}

func TestFormatSignedPct(t *testing.T) {
	if got := FormatSignedPct(3.125); got != "+3.13%" {
		t.Errorf("expected +3.13%%, got %s", got)
	}
	if got := FormatSignedPct(-1.5); got != "-1.50%" {
		t.Errorf("expected -1.50%%, got %s", got)
	}
}

func TestFormatDecimalMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"1234.5", "$1,234.50"},
		{"-99.999", "-$100.00"},
		{"2500000.10", "$2,500,000.10"},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatDecimalMoney(d); got != tc.want {
			t.Errorf("FormatDecimalMoney(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestFormatMoneyWithCurrency(t *testing.T) {
	if got := FormatMoneyWithCurrency(1234.56, "AUD"); got != "A$1,234.56" {
		t.Errorf("unexpected AUD format: %s", got)
	}
	if got := FormatMoneyWithCurrency(-1.25, "USD"); got != "-US$1.25" {
		t.Errorf("unexpected USD format: %s", got)
	}
	if got := FormatMoneyWithCurrency(5, "XYZ"); got != "$5.00" {
		t.Errorf("unexpected fallback format: %s", got)
	}
}

func TestIsFresh(t *testing.T) {
	if IsFresh(time.Time{}, time.Hour) {
		t.Error("zero timestamp must never be fresh")
	}
	if !IsFresh(time.Now().Add(-time.Minute), time.Hour) {
		t.Error("one minute old must be fresh under a 1h TTL")
	}
	if IsFresh(time.Now().Add(-2*time.Hour), time.Hour) {
		t.Error("two hours old must be stale under a 1h TTL")
	}
}
