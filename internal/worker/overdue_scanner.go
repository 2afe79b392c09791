package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// OverdueNotifier is satisfied by *application.ReservationService.
type OverdueNotifier interface {
	NotifyOverdue(ctx context.Context) (int, error)
}

// OverdueScanner periodically publishes reminders for overdue reservations.
type OverdueScanner struct {
	Notifier OverdueNotifier
	Interval time.Duration
	Logger   *logrus.Logger
}

func NewOverdueScanner(n OverdueNotifier, interval time.Duration, logger *logrus.Logger) *OverdueScanner {
	return &OverdueScanner{Notifier: n, Interval: interval, Logger: logger}
}

// Run scans once immediately and then every Interval until ctx is done.
// A non-positive Interval disables the scanner.
func (s *OverdueScanner) Run(ctx context.Context) error {
	if s.Interval <= 0 {
		s.Logger.Info("overdue scanner disabled")
		return nil
	}
	s.Logger.WithField("interval", s.Interval.String()).Info("overdue scanner started")

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		s.scan(ctx)
		select {
		case <-ctx.Done():
			s.Logger.Info("overdue scanner stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (s *OverdueScanner) scan(ctx context.Context) {
	n, err := s.Notifier.NotifyOverdue(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.Logger.WithError(err).Error("overdue scan failed")
		}
		return
	}
	if n > 0 {
		s.Logger.WithField("reminders", n).Info("overdue reminders published")
	}
}
