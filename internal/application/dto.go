package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// Event types published on the notification queue.
const (
	EventReservationCreated  = "reservation.created"
	EventReservationReturned = "reservation.returned"
	EventReservationOverdue  = "reservation.overdue"
)

type CreateReservationInput struct {
	UserID         int64  `json:"user_id" binding:"required,gt=0"`
	BookExternalID int64  `json:"book_external_id" binding:"required,gt=0"`
	RentalDays     int    `json:"rental_days" binding:"required,gt=0"`
	StartDate      string `json:"start_date" binding:"required,date"`
}

type ReturnBookInput struct {
	ReturnDate string `json:"return_date" binding:"required,date"`
}

type ReservationResponse struct {
	ID                 int64   `json:"id"`
	UserID             int64   `json:"user_id"`
	UserName           string  `json:"user_name"`
	BookExternalID     int64   `json:"book_external_id"`
	BookTitle          string  `json:"book_title"`
	RentalDays         int     `json:"rental_days"`
	StartDate          string  `json:"start_date"`
	ExpectedReturnDate string  `json:"expected_return_date"`
	ActualReturnDate   *string `json:"actual_return_date"`
	DailyRate          string  `json:"daily_rate"`
	TotalFee           string  `json:"total_fee"`
	LateFee            string  `json:"late_fee"`
	Status             string  `json:"status"`
	CreatedAt          string  `json:"created_at"`
}

// ReservationEvent is what the notification pipeline receives. DaysLate and
// AccruedLateFee describe the return for returned events and the state as
// of OccurredAt for overdue events.
type ReservationEvent struct {
	Type           string              `json:"type"`
	UserEmail      string              `json:"user_email"`
	Reservation    ReservationResponse `json:"reservation"`
	DaysLate       int                 `json:"days_late"`
	AccruedLateFee string              `json:"accrued_late_fee"`
	OccurredAt     time.Time           `json:"occurred_at"`
}

type CreateUserInput struct {
	Name  string `json:"name" binding:"required,min=2,max=120"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
}

type UpdateUserInput struct {
	Name  string `json:"name" binding:"omitempty,min=2,max=120"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type UpdateStockInput struct {
	StockQuantity *int `json:"stock_quantity" binding:"required,gte=0"`
}

type BookResponse struct {
	ID                int64  `json:"id"`
	ExternalID        int64  `json:"external_id"`
	Title             string `json:"title"`
	AuthorName        string `json:"author_name"`
	Price             string `json:"price"`
	StockQuantity     int    `json:"stock_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
}

// BookHit is a single search result.
type BookHit struct {
	ExternalID int64   `json:"external_id"`
	Title      string  `json:"title"`
	AuthorName string  `json:"author_name"`
	Price      string  `json:"price"`
	Score      float64 `json:"score"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Indexed  int `json:"indexed"`
}

// money renders an amount with at least two fraction digits and never drops precision.
func money(d decimal.Decimal) string {
	places := int32(2)
	if exp := -d.Exponent(); exp > places {
		places = exp
	}
	return d.StringFixed(places)
}

func formatDate(t time.Time) string { return t.Format(dateLayout) }

// parseDate reads a YYYY-MM-DD calendar date as midnight UTC.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

func toReservationResponse(r *entity.Reservation) ReservationResponse {
	out := ReservationResponse{
		ID:                 r.ID,
		UserID:             r.UserID,
		UserName:           r.UserName,
		BookExternalID:     r.BookExternalID,
		BookTitle:          r.BookTitle,
		RentalDays:         r.RentalDays,
		StartDate:          formatDate(r.StartDate),
		ExpectedReturnDate: formatDate(r.ExpectedReturnDate),
		DailyRate:          money(r.DailyRate),
		TotalFee:           money(r.TotalFee),
		LateFee:            money(r.LateFeeOrZero()),
		Status:             string(r.Status),
		CreatedAt:          r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.ActualReturnDate != nil {
		s := formatDate(*r.ActualReturnDate)
		out.ActualReturnDate = &s
	}
	return out
}

func toReservationResponses(rs []entity.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(rs))
	for i := range rs {
		out = append(out, toReservationResponse(&rs[i]))
	}
	return out
}

func toUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toBookResponse(b *entity.Book) BookResponse {
	return BookResponse{
		ID:                b.ID,
		ExternalID:        b.ExternalID,
		Title:             b.Title,
		AuthorName:        b.AuthorName,
		Price:             money(b.Price),
		StockQuantity:     b.StockQuantity,
		AvailableQuantity: b.AvailableQuantity,
	}
}
