package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
)

// CatalogClient reads books from the external catalog API. Returned books
// carry catalog data only; quantities are left at zero.
type CatalogClient interface {
	FetchAll(ctx context.Context) ([]entity.Book, error)
	FetchOne(ctx context.Context, externalID int64) (*entity.Book, error)
}

// BookCache is a read-through cache of books keyed by external id.
type BookCache interface {
	Get(ctx context.Context, externalID int64) (*entity.Book, bool, error)
	Set(ctx context.Context, b *entity.Book) error
	Invalidate(ctx context.Context, externalID int64) error
}

// BookIndex is the full-text index over imported books.
type BookIndex interface {
	Index(ctx context.Context, b *entity.Book) error
	Search(ctx context.Context, q string, size int) ([]BookHit, error)
}

// EventPublisher hands reservation events to the notification pipeline.
type EventPublisher interface {
	Publish(ctx context.Context, ev ReservationEvent) error
}

// ReportStore keeps generated reports and returns a URL to the stored object.
type ReportStore interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the wall clock in UTC.
var SystemClock Clock = systemClock{}
