package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalFee_IsExact(t *testing.T) {
	got := TotalFee(decimal.RequireFromString("0.10"), 3)
	assert.Equal(t, "0.3", got.String())

	got = TotalFee(decimal.RequireFromString("15.99"), 10)
	assert.True(t, got.Equal(decimal.RequireFromString("159.9")))
}

func TestLateFee(t *testing.T) {
	tests := []struct {
		price string
		days  int
		want  string
	}{
		{"15.99", 3, "7.20"},
		{"15.99", 1, "2.40"},
		{"10.00", 2, "3.00"},
		{"0.10", 1, "0.02"},
		{"0.30", 1, "0.05"},
		{"15.99", 0, "0.00"},
		{"15.99", -2, "0.00"},
		{"100.00", 10, "150.00"},
	}
	for _, tt := range tests {
		got := LateFee(decimal.RequireFromString(tt.price), tt.days)
		assert.Equal(t, tt.want, got.StringFixed(2), "price=%s days=%d", tt.price, tt.days)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(a, time.Date(2025, 11, 23, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysBetween(a, time.Date(2025, 11, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, DaysBetween(a, a))
	// across a month and year boundary
	assert.Equal(t, 12, DaysBetween(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)))
}
