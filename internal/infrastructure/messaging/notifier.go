// Package messaging turns reservation events into email jobs on RabbitMQ.
package messaging

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-library-rental/internal/application"
	"github.com/oksasatya/go-library-rental/pkg/mailer"
	mailtpl "github.com/oksasatya/go-library-rental/pkg/mailer/templates"
)

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// Notifier implements application.EventPublisher.
type Notifier struct {
	Pub   JSONPublisher
	Brand mailtpl.Brand
}

func NewNotifier(pub JSONPublisher, brand mailtpl.Brand) *Notifier {
	return &Notifier{Pub: pub, Brand: brand}
}

func templateFor(eventType string) (string, error) {
	switch eventType {
	case application.EventReservationCreated:
		return mailtpl.ReservationCreated, nil
	case application.EventReservationReturned:
		return mailtpl.ReservationReturned, nil
	case application.EventReservationOverdue:
		return mailtpl.ReservationOverdue, nil
	}
	return "", fmt.Errorf("no email template for event %q", eventType)
}

// JobFor builds the email job for ev.
func JobFor(brand mailtpl.Brand, ev application.ReservationEvent) (mailer.EmailJob, error) {
	tpl, err := templateFor(ev.Type)
	if err != nil {
		return mailer.EmailJob{}, err
	}
	if ev.UserEmail == "" {
		return mailer.EmailJob{}, fmt.Errorf("reservation %d has no recipient", ev.Reservation.ID)
	}

	r := ev.Reservation
	opts := []mailtpl.Option{mailtpl.WithTime(ev.OccurredAt)}
	switch ev.Type {
	case application.EventReservationReturned:
		actual := ""
		if r.ActualReturnDate != nil {
			actual = *r.ActualReturnDate
		}
		opts = append(opts, mailtpl.WithReturn(actual, ev.AccruedLateFee, ev.DaysLate))
	case application.EventReservationOverdue:
		opts = append(opts, mailtpl.WithReturn("", ev.AccruedLateFee, ev.DaysLate))
	}

	d := mailtpl.NewReservationData(brand, tpl, r.UserName, ev.UserEmail, opts...)
	d.ReservationID = r.ID
	d.BookTitle = r.BookTitle
	d.RentalDays = r.RentalDays
	d.StartDate = r.StartDate
	d.ExpectedReturnDate = r.ExpectedReturnDate
	d.TotalFee = r.TotalFee

	return mailer.EmailJob{
		To:       ev.UserEmail,
		Template: tpl,
		Data:     mailtpl.ToMap(d),
	}, nil
}

func (n *Notifier) Publish(ctx context.Context, ev application.ReservationEvent) error {
	job, err := JobFor(n.Brand, ev)
	if err != nil {
		return err
	}
	return n.Pub.PublishJSON(ctx, ev.Type, job)
}

var _ application.EventPublisher = (*Notifier)(nil)
