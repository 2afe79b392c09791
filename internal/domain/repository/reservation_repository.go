package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
)

// ReservationRepository persists reservations. Reads return the reservation
// joined with its user name and the current book title and price.
type ReservationRepository interface {
	// Create inserts r and fills ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, r *entity.Reservation) error
	// Update persists a return. Only ACTIVE rows are updated; a RETURNED row
	// yields errs.ErrConflict.
	Update(ctx context.Context, r *entity.Reservation) error

	GetByID(ctx context.Context, id int64) (*entity.Reservation, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Reservation, error)

	List(ctx context.Context) ([]entity.Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Reservation, error)
	ListByStatus(ctx context.Context, status entity.ReservationStatus) ([]entity.Reservation, error)
	// ListOverdue returns ACTIVE reservations expected back before today.
	ListOverdue(ctx context.Context, today time.Time) ([]entity.Reservation, error)
}
