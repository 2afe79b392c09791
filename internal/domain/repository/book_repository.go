package repository

import (
	"context"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
)

// BookRepository stores the local copy of the catalog and its availability.
type BookRepository interface {
	GetByExternalID(ctx context.Context, externalID int64) (*entity.Book, error)
	List(ctx context.Context) ([]entity.Book, error)

	// Upsert inserts a book or refreshes title, author and price of an existing
	// one. Quantities of an existing book are left untouched.
	Upsert(ctx context.Context, b *entity.Book) error

	// UpdateStock sets the stock and shifts availability by the same delta.
	// It fails with errs.ErrConflict if availability would drop below zero.
	UpdateStock(ctx context.Context, externalID int64, stock int) (*entity.Book, error)

	// DecrementAvailable takes one copy. It fails with errs.ErrConflict when no
	// copy is available at the time of the write.
	DecrementAvailable(ctx context.Context, externalID int64) error
	IncrementAvailable(ctx context.Context, externalID int64) error
}
