package utils

import "testing"

func TestFormatVND(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 VND"},
		{999, "999 VND"},
		{1000, "1.000 VND"},
		{500000, "500.000 VND"},
		{1234567, "1.234.567 VND"},
		{-20000, "-20.000 VND"},
	}
	for _, c := range cases {
		if got := FormatVND(c.in); got != c.want {
			t.Fatalf("FormatVND(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseVNDToInt(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"500.000", 500000},
		{"500,000 VND", 500000},
		{" 1.234.567 vnd ", 1234567},
		{"0", 0},
	}
	for _, c := range cases {
		got, err := ParseVNDToInt(c.in)
		if err != nil {
			t.Fatalf("ParseVNDToInt(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseVNDToInt(%q) = %d, want %d", c.in, got, c.want)
		}
	}

	if _, err := ParseVNDToInt("  VND "); err == nil {
		t.Fatalf("blank amount should fail")
	}
}

func TestFormatMoneyKeepsTwoDecimals(t *testing.T) {
	if got := FormatMoney(199.8); got != "199.80" {
		t.Fatalf("FormatMoney(199.8) = %q", got)
	}
}
