package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-library-rental/internal/application"
	"github.com/oksasatya/go-library-rental/pkg/mailer"
	mailtpl "github.com/oksasatya/go-library-rental/pkg/mailer/templates"
)

type capture struct {
	msgType string
	body    []byte
}

func (c *capture) PublishJSON(_ context.Context, msgType string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	c.msgType, c.body = msgType, b
	return nil
}

var brand = mailtpl.Brand{LibraryName: "Libreria", AppName: "library-rental"}

func returnedEvent() application.ReservationEvent {
	actual := "2025-11-23"
	return application.ReservationEvent{
		Type:      application.EventReservationReturned,
		UserEmail: "ada@example.com",
		Reservation: application.ReservationResponse{
			ID: 7, UserName: "Ada Lovelace", BookTitle: "Dune", RentalDays: 10,
			StartDate: "2025-11-10", ExpectedReturnDate: "2025-11-20", ActualReturnDate: &actual,
			TotalFee: "159.90", LateFee: "7.20", Status: "RETURNED",
		},
		DaysLate:       3,
		AccruedLateFee: "7.20",
		OccurredAt:     time.Date(2025, 11, 23, 12, 0, 0, 0, time.UTC),
	}
}

func TestNotifier_PublishesEmailJob(t *testing.T) {
	pub := &capture{}
	n := NewNotifier(pub, brand)

	require.NoError(t, n.Publish(context.Background(), returnedEvent()))
	assert.Equal(t, application.EventReservationReturned, pub.msgType)

	var job mailer.EmailJob
	require.NoError(t, json.Unmarshal(pub.body, &job))
	assert.Equal(t, "ada@example.com", job.To)
	assert.Equal(t, mailtpl.ReservationReturned, job.Template)
	assert.Equal(t, "Dune", job.Data["BookTitle"])
	assert.Equal(t, "7.20", job.Data["LateFee"])
	assert.Equal(t, true, job.Data["Late"])
	assert.Equal(t, "Libreria", job.Data["LibraryName"])
}

func TestJobFor_Rejects(t *testing.T) {
	ev := returnedEvent()
	ev.Type = "reservation.lost"
	_, err := JobFor(brand, ev)
	require.Error(t, err)

	ev = returnedEvent()
	ev.UserEmail = ""
	_, err = JobFor(brand, ev)
	require.Error(t, err)
}

func TestJobFor_RendersEveryTemplate(t *testing.T) {
	for _, typ := range []string{
		application.EventReservationCreated,
		application.EventReservationReturned,
		application.EventReservationOverdue,
	} {
		ev := returnedEvent()
		ev.Type = typ
		job, err := JobFor(brand, ev)
		require.NoError(t, err, typ)

		subject, text, html, err := mailtpl.Render(job.Template, job.Data)
		require.NoError(t, err, typ)
		assert.Contains(t, subject, "Dune", typ)
		assert.Contains(t, text, "20 November 2025", typ)
		assert.Contains(t, html, "Libreria", typ)
	}
}
