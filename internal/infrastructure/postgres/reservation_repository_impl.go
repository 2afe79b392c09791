package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
	"github.com/oksasatya/go-library-rental/internal/domain/errs"
	"github.com/oksasatya/go-library-rental/internal/domain/repository"
)

type ReservationRepository struct {
	db querier
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: pool}
}

const reservationSelect = `
	SELECT r.id, r.user_id, u.name, u.email, r.book_id, b.external_id, b.title, b.price,
	       r.rental_days, r.start_date, r.expected_return_date, r.actual_return_date,
	       r.daily_rate, r.total_fee, r.late_fee, r.status, r.created_at, r.updated_at
	FROM reservations r
	JOIN users u ON u.id = r.user_id
	JOIN books b ON b.id = r.book_id`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var (
		res    entity.Reservation
		status string
	)
	err := row.Scan(&res.ID, &res.UserID, &res.UserName, &res.UserEmail, &res.BookID, &res.BookExternalID,
		&res.BookTitle, &res.BookPrice, &res.RentalDays, &res.StartDate, &res.ExpectedReturnDate,
		&res.ActualReturnDate, &res.DailyRate, &res.TotalFee, &res.LateFee, &status,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.Status = entity.ReservationStatus(status)
	return &res, nil
}

func (r *ReservationRepository) collect(ctx context.Context, query string, args ...any) ([]entity.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *ReservationRepository) Create(ctx context.Context, res *entity.Reservation) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO reservations (user_id, book_id, rental_days, start_date, expected_return_date,
		                          daily_rate, total_fee, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, res.UserID, res.BookID, res.RentalDays, res.StartDate, res.ExpectedReturnDate,
		res.DailyRate, res.TotalFee, string(res.Status))

	if err := row.Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *entity.Reservation) error {
	row := r.db.QueryRow(ctx, `
		UPDATE reservations
		SET actual_return_date = $2, late_fee = $3, status = $4, updated_at = now()
		WHERE id = $1 AND status = 'ACTIVE'
		RETURNING updated_at
	`, res.ID, res.ActualReturnDate, res.LateFee, string(res.Status))

	if err := row.Scan(&res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.Conflict("reservation %d already returned", res.ID)
		}
		return fmt.Errorf("update reservation %d: %w", res.ID, err)
	}
	return nil
}

func (r *ReservationRepository) getOne(ctx context.Context, id int64, query string) (*entity.Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFound("reservation %d not found", id)
		}
		return nil, fmt.Errorf("get reservation %d: %w", id, err)
	}
	return res, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*entity.Reservation, error) {
	return r.getOne(ctx, id, reservationSelect+` WHERE r.id = $1`)
}

func (r *ReservationRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Reservation, error) {
	return r.getOne(ctx, id, reservationSelect+` WHERE r.id = $1 FOR UPDATE OF r`)
}

func (r *ReservationRepository) List(ctx context.Context) ([]entity.Reservation, error) {
	return r.collect(ctx, reservationSelect+` ORDER BY r.id`)
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Reservation, error) {
	return r.collect(ctx, reservationSelect+` WHERE r.user_id = $1 ORDER BY r.id`, userID)
}

func (r *ReservationRepository) ListByStatus(ctx context.Context, status entity.ReservationStatus) ([]entity.Reservation, error) {
	return r.collect(ctx, reservationSelect+` WHERE r.status = $1 ORDER BY r.id`, string(status))
}

func (r *ReservationRepository) ListOverdue(ctx context.Context, today time.Time) ([]entity.Reservation, error) {
	return r.collect(ctx, reservationSelect+`
		WHERE r.status = 'ACTIVE' AND r.expected_return_date < $1
		ORDER BY r.expected_return_date, r.id`, entity.DateOf(today))
}

var _ repository.ReservationRepository = (*ReservationRepository)(nil)
