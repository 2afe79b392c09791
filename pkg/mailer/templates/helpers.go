package templates

import (
	"time"

	"github.com/oksasatya/go-library-rental/config"
)

// Option pattern
type Option func(*ReservationData)

func WithTime(t time.Time) Option {
	return func(d *ReservationData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithReturn(actualReturnDate, lateFee string, daysLate int) Option {
	return func(d *ReservationData) {
		d.ActualReturnDate = actualReturnDate
		d.LateFee = lateFee
		d.DaysLate = daysLate
		d.Late = daysLate > 0
	}
}

// Brand carries the library identity shown in every email.
type Brand struct {
	LibraryName string
	AppName     string
	SupportURL  string
}

func BrandFromConfig(cfg *config.Config) Brand {
	return Brand{LibraryName: cfg.LibraryName, AppName: cfg.AppName, SupportURL: cfg.SupportURL}
}

// NewReservationData fills the brand fields and applies opts.
func NewReservationData(b Brand, typ, name, email string, opts ...Option) ReservationData {
	d := ReservationData{
		Name:        name,
		Email:       email,
		Type:        typ,
		LibraryName: b.LibraryName,
		AppName:     b.AppName,
		SupportURL:  b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
