package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"500", 50000, true},
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1234, true}, // third digit <5 rounds down
		{"12.346", 1235, true}, // third digit >=5 rounds up
		{"10.005", 1001, true},
		{".5", 50, true},
		{"0", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"-5", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		cents, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || cents != tc.cents) {
			t.Fatalf("ParseDecimalToCents(%q) = %d, %v; want %d", tc.in, cents, err, tc.cents)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDecimalToCents(%q) expected error", tc.in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{12000, "120"},
		{4550, "45.5"},
		{1001, "10.01"},
		{5, "0.05"},
		{-70000, "-700"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := FormatAmount(Money{Cents: tc.cents}); got != tc.want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyFromFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{500, 50000},
		{45.5, 4550},
		{1234.56, 123456},
		{0, 0},
	}
	for _, tc := range cases {
		if got := MoneyFromFloat(tc.in); got.Cents != tc.want {
			t.Fatalf("MoneyFromFloat(%v) = %d, want %d", tc.in, got.Cents, tc.want)
		}
	}
}
