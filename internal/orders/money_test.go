package orders

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountProblem(t *testing.T) {
	tests := []struct {
		amount string
		ok     bool
	}{
		{"0", true},
		{"12.5", true},
		{"12.300", true},
		{"99999999.99", true},
		{"12.345", false},
		{"0.001", false},
		{"100000000", false},
	}
	for _, tt := range tests {
		got := AmountProblem(decimal.RequireFromString(tt.amount))
		if (got == "") != tt.ok {
			t.Fatalf("%s: expected ok=%v got problem %q", tt.amount, tt.ok, got)
		}
	}
}
