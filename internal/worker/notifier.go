// Package worker holds the background jobs: delivering queued reservation
// emails and scanning for overdue reservations.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-rental/pkg/helpers"
	"github.com/oksasatya/go-library-rental/pkg/mailer"
	mailtpl "github.com/oksasatya/go-library-rental/pkg/mailer/templates"
)

// Outcome tells the consumer loop what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota
	Requeue         // transient failure, try again
	Drop            // malformed, never retry
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// Sender is satisfied by *mailer.Mailgun.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) (string, error)
}

// EmailDelivery renders queued email jobs and hands them to a Sender.
type EmailDelivery struct {
	Sender      Sender
	Location    *time.Location
	Logger      *logrus.Logger
	SendTimeout time.Duration
	// DryRun renders and logs without sending.
	DryRun bool
}

func NewEmailDelivery(sender Sender, loc *time.Location, logger *logrus.Logger, dryRun bool) *EmailDelivery {
	return &EmailDelivery{Sender: sender, Location: loc, Logger: logger, SendTimeout: 15 * time.Second, DryRun: dryRun}
}

var errNoRecipient = errors.New("email job has no recipient")

// decodeJob keeps numbers as json.Number so ids render as integers.
func decodeJob(body []byte) (mailer.EmailJob, error) {
	var job mailer.EmailJob
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&job); err != nil {
		return job, err
	}
	if job.To == "" {
		return job, errNoRecipient
	}
	return job, nil
}

// Handle processes one queue message.
func (d *EmailDelivery) Handle(ctx context.Context, msgType string, body []byte) Outcome {
	log := d.Logger.WithField("type", msgType)

	job, err := decodeJob(body)
	if err != nil {
		log.WithError(err).Warn("dropping malformed email job")
		return Drop
	}
	helpers.NormalizeJob(&job, msgType)
	helpers.LocalizeTimes(job.Data, d.Location)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			log.WithError(err).WithField("template", job.Template).Error("render failed")
			return Drop
		}
	}
	if subject == "" {
		subject = helpers.FallbackSubject(job.Template)
	}
	log = log.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	if d.DryRun {
		log.WithField("subject", subject).Info("email rendered, sending disabled")
		return Ack
	}

	c, cancel := context.WithTimeout(ctx, d.SendTimeout)
	defer cancel()
	id, err := d.Sender.Send(c, job.To, subject, text, html)
	if err != nil {
		log.WithError(err).Warn("send failed, requeueing")
		return Requeue
	}
	log.WithField("message_id", id).Info("email sent")
	return Ack
}
