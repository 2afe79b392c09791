package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
	"github.com/oksasatya/go-library-rental/internal/domain/errs"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func lotr() *entity.Book {
	return &entity.Book{
		ID:                7,
		ExternalID:        258027,
		Title:             "The Lord of the Rings",
		Price:             decimal.RequireFromString("15.99"),
		StockQuantity:     10,
		AvailableQuantity: 5,
	}
}

func juan() *entity.User {
	return &entity.User{ID: 1, Name: "Juan Pérez", Email: "juan@example.com"}
}

func TestNewReservation_ComputesDatesAndFees(t *testing.T) {
	r, err := entity.NewReservation(juan(), lotr(), 10, date(2025, 11, 14))
	require.NoError(t, err)

	assert.Equal(t, entity.ReservationActive, r.Status)
	assert.Equal(t, date(2025, 11, 24), r.ExpectedReturnDate)
	assert.True(t, r.TotalFee.Equal(decimal.RequireFromString("159.90")), "total fee %s", r.TotalFee)
	assert.True(t, r.DailyRate.Equal(decimal.RequireFromString("15.99")))
	assert.False(t, r.LateFee.Valid)
	assert.Nil(t, r.ActualReturnDate)
	assert.Equal(t, int64(258027), r.BookExternalID)
	assert.Equal(t, "Juan Pérez", r.UserName)
}

func TestNewReservation_TruncatesStartToDate(t *testing.T) {
	start := time.Date(2025, 11, 14, 18, 30, 0, 0, time.UTC)
	r, err := entity.NewReservation(juan(), lotr(), 1, start)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 11, 14), r.StartDate)
	assert.Equal(t, date(2025, 11, 15), r.ExpectedReturnDate)
}

func TestNewReservation_Validation(t *testing.T) {
	tests := []struct {
		name  string
		days  int
		start time.Time
		price string
	}{
		{name: "zero days", days: 0, start: date(2025, 1, 1), price: "1.00"},
		{name: "negative days", days: -3, start: date(2025, 1, 1), price: "1.00"},
		{name: "missing start", days: 3, price: "1.00"},
		{name: "negative price", days: 3, start: date(2025, 1, 1), price: "-0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := lotr()
			b.Price = decimal.RequireFromString(tt.price)
			_, err := entity.NewReservation(juan(), b, tt.days, tt.start)
			require.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestMarkReturned_OnTime(t *testing.T) {
	r, err := entity.NewReservation(juan(), lotr(), 7, date(2025, 11, 13))
	require.NoError(t, err)

	require.NoError(t, r.MarkReturned(date(2025, 11, 20)))

	assert.Equal(t, entity.ReservationReturned, r.Status)
	require.NotNil(t, r.ActualReturnDate)
	assert.Equal(t, date(2025, 11, 20), *r.ActualReturnDate)
	assert.False(t, r.LateFee.Valid)
	assert.True(t, r.LateFeeOrZero().IsZero())
}

func TestMarkReturned_Early(t *testing.T) {
	r, err := entity.NewReservation(juan(), lotr(), 7, date(2025, 11, 13))
	require.NoError(t, err)

	require.NoError(t, r.MarkReturned(date(2025, 11, 15)))
	assert.True(t, r.LateFeeOrZero().IsZero())
}

func TestMarkReturned_Late(t *testing.T) {
	r, err := entity.NewReservation(juan(), lotr(), 10, date(2025, 11, 10))
	require.NoError(t, err)
	require.Equal(t, date(2025, 11, 20), r.ExpectedReturnDate)

	require.NoError(t, r.MarkReturned(date(2025, 11, 23)))

	assert.Equal(t, 3, r.DaysLate(date(2025, 11, 23)))
	require.True(t, r.LateFee.Valid)
	assert.Equal(t, "7.20", r.LateFee.Decimal.StringFixed(2))
	assert.True(t, r.LateFee.Decimal.Equal(decimal.RequireFromString("7.2")))
}

func TestMarkReturned_AlreadyReturned(t *testing.T) {
	r, err := entity.NewReservation(juan(), lotr(), 7, date(2025, 11, 13))
	require.NoError(t, err)
	require.NoError(t, r.MarkReturned(date(2025, 11, 25)))
	fee := r.LateFee

	err = r.MarkReturned(date(2025, 12, 30))
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, date(2025, 11, 25), *r.ActualReturnDate)
	assert.True(t, fee.Decimal.Equal(r.LateFee.Decimal))
}

func TestMarkReturned_MissingDate(t *testing.T) {
	r, err := entity.NewReservation(juan(), lotr(), 7, date(2025, 11, 13))
	require.NoError(t, err)
	require.ErrorIs(t, r.MarkReturned(time.Time{}), errs.ErrValidation)
	assert.Equal(t, entity.ReservationActive, r.Status)
}

func TestIsOverdue(t *testing.T) {
	r, err := entity.NewReservation(juan(), lotr(), 5, date(2025, 3, 1))
	require.NoError(t, err)

	assert.False(t, r.IsOverdue(date(2025, 3, 6)), "due today is not overdue")
	assert.True(t, r.IsOverdue(time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)))

	require.NoError(t, r.MarkReturned(date(2025, 3, 8)))
	assert.False(t, r.IsOverdue(date(2025, 4, 1)))
}
