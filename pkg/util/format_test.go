package util

import (
	"testing"
	"time"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{9.99, "$9.99"},
		{1234.5, "$1,234.50"},
		{1999999.999, "$2,000,000.00"},
		{-42, "-$42.00"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.March, 5, 15, 4, 0, 0, time.UTC)
	if got := FormatDate(d); got != "March 5, 2024" {
		t.Fatalf("FormatDate = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in     string
		length int
		want   string
	}{
		{"short", 50, "short"},
		{"exactly", 7, "exactly"},
		{"The Essence Lash Princess False Lash Effect Mascara", 20, "The Essence Lash Pri..."},
		{"héllo wörld", 5, "héllo..."},
	}
	for _, tc := range cases {
		if got := Truncate(tc.in, tc.length); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.length, got, tc.want)
		}
	}
}
