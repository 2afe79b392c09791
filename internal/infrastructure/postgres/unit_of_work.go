package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-rental/internal/domain/repository"
)

// UnitOfWork runs callbacks in a pgx transaction with tx-bound repositories.
type UnitOfWork struct {
	pool   *pgxpool.Pool
	Logger *logrus.Logger
}

func NewUnitOfWork(pool *pgxpool.Pool, logger *logrus.Logger) *UnitOfWork {
	return &UnitOfWork{pool: pool, Logger: logger}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		// no-op once committed
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && u.Logger != nil {
			u.Logger.WithError(rbErr).Warn("rollback failed")
		}
	}()

	repos := repository.TxRepositories{
		Books:        &BookRepository{db: tx},
		Reservations: &ReservationRepository{db: tx},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)
