package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLine(t *testing.T) {
	price := decimal.RequireFromString("45.00")
	require.True(t, Line(price, 3).Equal(decimal.RequireFromString("135.00")))
}

func TestCompute(t *testing.T) {
	cases := []struct {
		name     string
		subtotal string
		tax      string
		shipping string
		total    string
	}{
		{"below free shipping", "25", "1.25", "25", "51.25"},
		{"exactly at threshold still pays shipping", "200", "10", "25", "235"},
		{"above threshold ships free", "200.01", "10", "0", "210.01"},
		{"large order", "250", "12.5", "0", "262.5"},
		{"empty", "0", "0", "25", "25"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Compute(decimal.RequireFromString(tc.subtotal))
			require.True(t, q.Tax.Equal(decimal.RequireFromString(tc.tax)), "tax = %s", q.Tax)
			require.True(t, q.Shipping.Equal(decimal.RequireFromString(tc.shipping)), "shipping = %s", q.Shipping)
			require.True(t, q.Total.Equal(decimal.RequireFromString(tc.total)), "total = %s", q.Total)
		})
	}
}

func TestComputeRoundsTax(t *testing.T) {
	// 33.33 * 0.05 = 1.6665, rounded to currency scale.
	q := Compute(decimal.RequireFromString("33.33"))
	require.True(t, q.Tax.Equal(decimal.RequireFromString("1.67")), "tax = %s", q.Tax)
}
