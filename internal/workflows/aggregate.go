package workflows

import "github.com/shopspring/decimal"

// Aggregate reduces values with op. An empty op counts; avg of nothing is zero.
func Aggregate(op string, values []float64) decimal.Decimal {
	switch op {
	case OperationSum, OperationAvg:
		sum := decimal.Zero
		for _, v := range values {
			sum = sum.Add(decimal.NewFromFloat(v))
		}
		if op == OperationSum || len(values) == 0 {
			return sum
		}
		return sum.Div(decimal.NewFromInt(int64(len(values))))
	default:
		return decimal.NewFromInt(int64(len(values)))
	}
}
