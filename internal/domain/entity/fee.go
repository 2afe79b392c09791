package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LateFeeRate is the share of the book price charged per day of late return.
var LateFeeRate = decimal.RequireFromString("0.15")

// TotalFee is rate × days with no rounding.
func TotalFee(dailyRate decimal.Decimal, rentalDays int) decimal.Decimal {
	return dailyRate.Mul(decimal.NewFromInt(int64(rentalDays)))
}

// LateFee is price × 0.15 × daysLate rounded half-up to cents. Zero when not late.
func LateFee(bookPrice decimal.Decimal, daysLate int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	return bookPrice.
		Mul(LateFeeRate).
		Mul(decimal.NewFromInt(int64(daysLate))).
		Round(2)
}

// DateOf truncates t to its calendar date at 00:00 UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b, negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
