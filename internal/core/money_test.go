package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"50", "50", true},
		{"50,00", "50", true},
		{"100,50", "100.5", true},
		{"1234.56", "1234.56", true},
		{" 2.50 ", "2.5", true},
		{"1.005", "1.01", true},
		{".5", "0.5", true},
		{"abc", "", false},
		{"", "", false},
		{"0", "", false},
		{"0,00", "", false},
		{",", "", false},
		{"1.234,56", "", false},
		{"1,2,3", "", false},
		{"1e3", "", false},
		{"-5", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if !tc.ok {
			require.ErrorIs(t, err, ErrInvalidAmount, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		require.True(t, got.Equal(decimal.RequireFromString(tc.out)), "input %q: got %s", tc.in, got)
	}
}

func TestFormatMoney(t *testing.T) {
	require.Equal(t, "R$30.00", FormatMoney(decimal.NewFromInt(30)))
	require.Equal(t, "100.50", FormatAmount(decimal.RequireFromString("100.5")))
}

func TestCentsRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("1234.56")
	require.Equal(t, int64(123456), ToCents(d))
	require.True(t, FromCents(123456).Equal(d))
	require.Equal(t, int64(-1), ToCents(decimal.RequireFromString("-0.01")))
}
