package domain

import (
	"errors"
	"testing"
)

func TestNormalizeMSISDN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+254712345678", "+254712345678"},
		{"254712345678", "+254712345678"},
		{"0712345678", "+254712345678"},
		{"0112345678", "+254112345678"},
		{"+254 712 345 678", "+254712345678"},
		{"0712-345-678", "+254712345678"},
	}
	for _, tc := range cases {
		got, err := NormalizeMSISDN(tc.in)
		if err != nil {
			t.Fatalf("NormalizeMSISDN(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeMSISDN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeMSISDNRejectsInvalid(t *testing.T) {
	cases := []string{
		"",
		"12345",
		"+14155550100",
		"+254812345678",
		"07123456789",
		"0712345",
		"not-a-number",
	}
	for _, in := range cases {
		if _, err := NormalizeMSISDN(in); !errors.Is(err, ErrInvalidPhone) {
			t.Fatalf("NormalizeMSISDN(%q): expected invalid phone, got %v", in, err)
		}
	}
}
