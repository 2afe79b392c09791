package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
	"github.com/oksasatya/go-library-rental/internal/domain/errs"
	repo "github.com/oksasatya/go-library-rental/internal/domain/repository"
)

// ReservationService runs the reservation lifecycle: create against book
// availability, return with late fee, and the read queries.
type ReservationService struct {
	Users        repo.UserRepository
	Books        *BookService
	Reservations repo.ReservationRepository
	UoW          repo.UnitOfWork
	Events       EventPublisher
	Reports      ReportStore
	Clock        Clock
	Logger       *logrus.Logger

	ReportsPrefix string
}

func NewReservationService(
	users repo.UserRepository,
	books *BookService,
	reservations repo.ReservationRepository,
	uow repo.UnitOfWork,
	events EventPublisher,
	reports ReportStore,
	logger *logrus.Logger,
	reportsPrefix string,
) *ReservationService {
	return &ReservationService{
		Users:         users,
		Books:         books,
		Reservations:  reservations,
		UoW:           uow,
		Events:        events,
		Reports:       reports,
		Clock:         SystemClock,
		Logger:        logger,
		ReportsPrefix: reportsPrefix,
	}
}

func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*ReservationResponse, error) {
	if in.RentalDays <= 0 {
		return nil, errs.Validation("rental days must be positive, got %d", in.RentalDays)
	}
	if in.StartDate == "" {
		return nil, errs.Validation("start date is required")
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		return nil, errs.Validation("start date %q is not a YYYY-MM-DD date", in.StartDate)
	}

	user, err := s.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	book, err := s.Books.GetByExternalID(ctx, in.BookExternalID)
	if err != nil {
		return nil, err
	}
	if !book.IsAvailable() {
		reservationConflicts.Add(1)
		return nil, errs.Conflict("book %d is not available", book.ExternalID)
	}

	res, err := entity.NewReservation(user, book, in.RentalDays, start)
	if err != nil {
		return nil, err
	}

	err = s.UoW.Do(ctx, func(ctx context.Context, tx repo.TxRepositories) error {
		if err := tx.Books.DecrementAvailable(ctx, book.ExternalID); err != nil {
			return err
		}
		return tx.Reservations.Create(ctx, res)
	})
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			reservationConflicts.Add(1)
		}
		s.logFailure(err, "create reservation failed", logrus.Fields{"user_id": in.UserID, "book_external_id": in.BookExternalID})
		return nil, err
	}

	reservationsCreated.Add(1)
	s.Books.Invalidate(ctx, book.ExternalID)

	s.publish(ctx, EventReservationCreated, res)
	out := toReservationResponse(res)
	return &out, nil
}

func (s *ReservationService) Return(ctx context.Context, id int64, in ReturnBookInput) (*ReservationResponse, error) {
	if in.ReturnDate == "" {
		return nil, errs.Validation("return date is required")
	}
	returnDate, err := parseDate(in.ReturnDate)
	if err != nil {
		return nil, errs.Validation("return date %q is not a YYYY-MM-DD date", in.ReturnDate)
	}

	var res *entity.Reservation
	err = s.UoW.Do(ctx, func(ctx context.Context, tx repo.TxRepositories) error {
		r, err := tx.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := r.MarkReturned(returnDate); err != nil {
			return err
		}
		if err := tx.Books.IncrementAvailable(ctx, r.BookExternalID); err != nil {
			return err
		}
		if err := tx.Reservations.Update(ctx, r); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		s.logFailure(err, "return reservation failed", logrus.Fields{"reservation_id": id})
		return nil, err
	}

	reservationsReturned.Add(1)
	s.Books.Invalidate(ctx, res.BookExternalID)

	s.publish(ctx, EventReservationReturned, res)
	out := toReservationResponse(res)
	return &out, nil
}

func (s *ReservationService) GetByID(ctx context.Context, id int64) (*ReservationResponse, error) {
	r, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toReservationResponse(r)
	return &out, nil
}

func (s *ReservationService) List(ctx context.Context) ([]ReservationResponse, error) {
	rs, err := s.Reservations.List(ctx)
	if err != nil {
		return nil, err
	}
	return toReservationResponses(rs), nil
}

func (s *ReservationService) ListByUser(ctx context.Context, userID int64) ([]ReservationResponse, error) {
	rs, err := s.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toReservationResponses(rs), nil
}

func (s *ReservationService) ListActive(ctx context.Context) ([]ReservationResponse, error) {
	rs, err := s.Reservations.ListByStatus(ctx, entity.ReservationActive)
	if err != nil {
		return nil, err
	}
	return toReservationResponses(rs), nil
}

func (s *ReservationService) ListOverdue(ctx context.Context) ([]ReservationResponse, error) {
	rs, err := s.overdue(ctx)
	if err != nil {
		return nil, err
	}
	return toReservationResponses(rs), nil
}

// NotifyOverdue publishes one reminder per overdue reservation and returns
// how many were published.
func (s *ReservationService) NotifyOverdue(ctx context.Context) (int, error) {
	rs, err := s.overdue(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for i := range rs {
		if s.publish(ctx, EventReservationOverdue, &rs[i]) {
			sent++
		}
	}
	return sent, nil
}

// ExportOverdueReport writes the overdue reservations as CSV to the report
// store and returns the object URL.
func (s *ReservationService) ExportOverdueReport(ctx context.Context) (string, error) {
	if s.Reports == nil {
		return "", errors.New("report storage not configured")
	}
	rs, err := s.overdue(ctx)
	if err != nil {
		return "", err
	}
	today := entity.DateOf(s.Clock.Now())

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"reservation_id", "user_id", "user_name", "book_external_id", "book_title",
		"expected_return_date", "days_late", "accrued_late_fee"})
	for i := range rs {
		r := &rs[i]
		days := r.DaysLate(today)
		_ = w.Write([]string{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.UserID, 10),
			r.UserName,
			strconv.FormatInt(r.BookExternalID, 10),
			r.BookTitle,
			formatDate(r.ExpectedReturnDate),
			strconv.Itoa(days),
			money(entity.LateFee(r.BookPrice, days)),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}

	name := fmt.Sprintf("%s/%s-%s.csv", s.ReportsPrefix, formatDate(today), uuid.NewString())
	url, err := s.Reports.Upload(ctx, name, "text/csv", &buf)
	if err != nil {
		s.logFailure(err, "upload overdue report failed", logrus.Fields{"object": name})
		return "", err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"object": name, "rows": len(rs)}).Info("overdue report exported")
	}
	return url, nil
}

func (s *ReservationService) overdue(ctx context.Context) ([]entity.Reservation, error) {
	return s.Reservations.ListOverdue(ctx, s.Clock.Now())
}

// publish is best effort; a failed publish never fails the operation.
func (s *ReservationService) publish(ctx context.Context, typ string, r *entity.Reservation) bool {
	if s.Events == nil {
		return false
	}
	now := s.Clock.Now()
	ev := ReservationEvent{
		Type:           typ,
		UserEmail:      r.UserEmail,
		Reservation:    toReservationResponse(r),
		AccruedLateFee: money(decimal.Zero),
		OccurredAt:     now,
	}
	switch typ {
	case EventReservationReturned:
		if r.ActualReturnDate != nil {
			ev.DaysLate = r.DaysLate(*r.ActualReturnDate)
		}
		ev.AccruedLateFee = money(r.LateFeeOrZero())
	case EventReservationOverdue:
		ev.DaysLate = r.DaysLate(now)
		ev.AccruedLateFee = money(entity.LateFee(r.BookPrice, ev.DaysLate))
	}

	if err := s.Events.Publish(ctx, ev); err != nil {
		eventPublishFailures.Add(1)
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"type": typ, "reservation_id": r.ID}).Warn("publish reservation event failed")
		}
		return false
	}
	return true
}

// logFailure logs unexpected errors; domain errors are the caller's business.
func (s *ReservationService) logFailure(err error, msg string, fields logrus.Fields) {
	if s.Logger == nil {
		return
	}
	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrConflict) || errors.Is(err, errs.ErrValidation) {
		s.Logger.WithError(err).WithFields(fields).Debug(msg)
		return
	}
	s.Logger.WithError(err).WithFields(fields).Error(msg)
}
