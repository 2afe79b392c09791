package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book is a catalog title held locally, keyed by the external catalog id.
// AvailableQuantity is the number of copies that can currently be rented.
type Book struct {
	ID                int64
	ExternalID        int64
	Title             string
	AuthorName        string
	Price             decimal.Decimal
	StockQuantity     int
	AvailableQuantity int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsAvailable reports whether at least one copy can be rented.
func (b *Book) IsAvailable() bool {
	return b.AvailableQuantity > 0
}
