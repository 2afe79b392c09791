package repository

import "context"

// TxRepositories are repositories bound to a single transaction.
type TxRepositories struct {
	Books        BookRepository
	Reservations ReservationRepository
}

// UnitOfWork runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back otherwise, so either every write made through
// the given repositories is visible or none is.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
