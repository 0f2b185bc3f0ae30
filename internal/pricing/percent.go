package pricing

import "github.com/shopspring/decimal"

// PercentOf computes percent% of an amount in integer cents, rounding
// half up at the minor-currency unit. Money stays integral end to end;
// decimal is only an intermediate.
func PercentOf(amountCents int, percent int) int {
	if amountCents <= 0 || percent <= 0 {
		return 0
	}
	result := decimal.NewFromInt(int64(amountCents)).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return int(result.IntPart())
}
