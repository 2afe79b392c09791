package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-library-rental/internal/domain/errs"
)

type ReservationStatus string

const (
	ReservationActive   ReservationStatus = "ACTIVE"
	ReservationReturned ReservationStatus = "RETURNED"
)

// Reservation is a user renting one copy of a book for RentalDays days.
//
// ExpectedReturnDate is fixed at creation. Status moves from ACTIVE to
// RETURNED once and never back.
type Reservation struct {
	ID int64

	UserID    int64
	UserName  string
	UserEmail string

	BookID         int64
	BookExternalID int64
	BookTitle      string
	// BookPrice is the current catalog price, used for the late fee.
	BookPrice decimal.Decimal

	RentalDays         int
	StartDate          time.Time
	ExpectedReturnDate time.Time
	ActualReturnDate   *time.Time

	DailyRate decimal.Decimal
	TotalFee  decimal.Decimal
	// LateFee stays invalid (unset) unless the book came back late.
	LateFee decimal.NullDecimal

	Status    ReservationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReservation builds an ACTIVE reservation of book for user, copying the
// book price as the daily rate. Availability is checked by the caller.
func NewReservation(user *User, book *Book, rentalDays int, startDate time.Time) (*Reservation, error) {
	if rentalDays <= 0 {
		return nil, errs.Validation("rental days must be positive, got %d", rentalDays)
	}
	if startDate.IsZero() {
		return nil, errs.Validation("start date is required")
	}
	if book.Price.IsNegative() {
		return nil, errs.Validation("book %d has a negative price", book.ExternalID)
	}

	start := DateOf(startDate)
	return &Reservation{
		UserID:             user.ID,
		UserName:           user.Name,
		UserEmail:          user.Email,
		BookID:             book.ID,
		BookExternalID:     book.ExternalID,
		BookTitle:          book.Title,
		BookPrice:          book.Price,
		RentalDays:         rentalDays,
		StartDate:          start,
		ExpectedReturnDate: start.AddDate(0, 0, rentalDays),
		DailyRate:          book.Price,
		TotalFee:           TotalFee(book.Price, rentalDays),
		Status:             ReservationActive,
	}, nil
}

// DaysLate is max(0, returnDate - ExpectedReturnDate) in whole days.
func (r *Reservation) DaysLate(returnDate time.Time) int {
	d := DaysBetween(r.ExpectedReturnDate, returnDate)
	if d < 0 {
		return 0
	}
	return d
}

// MarkReturned closes an ACTIVE reservation on returnDate, charging the late
// fee when the return is past the expected date.
func (r *Reservation) MarkReturned(returnDate time.Time) error {
	if r.Status != ReservationActive {
		return errs.Conflict("reservation %d already returned", r.ID)
	}
	if returnDate.IsZero() {
		return errs.Validation("return date is required")
	}

	actual := DateOf(returnDate)
	r.ActualReturnDate = &actual
	if days := r.DaysLate(actual); days > 0 {
		r.LateFee = decimal.NullDecimal{Decimal: LateFee(r.BookPrice, days), Valid: true}
	}
	r.Status = ReservationReturned
	return nil
}

// IsOverdue reports whether the reservation is ACTIVE past its expected return date.
func (r *Reservation) IsOverdue(today time.Time) bool {
	return r.Status == ReservationActive && r.ExpectedReturnDate.Before(DateOf(today))
}

// LateFeeOrZero returns the late fee, treating an unset fee as zero.
func (r *Reservation) LateFeeOrZero() decimal.Decimal {
	if !r.LateFee.Valid {
		return decimal.Zero
	}
	return r.LateFee.Decimal
}
