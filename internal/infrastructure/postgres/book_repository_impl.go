package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
	"github.com/oksasatya/go-library-rental/internal/domain/errs"
	"github.com/oksasatya/go-library-rental/internal/domain/repository"
)

type BookRepository struct {
	db querier
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{db: pool}
}

const bookColumns = `id, external_id, title, author_name, price, stock_quantity, available_quantity, created_at, updated_at`

func scanBook(row pgx.Row) (*entity.Book, error) {
	b := &entity.Book{}
	err := row.Scan(&b.ID, &b.ExternalID, &b.Title, &b.AuthorName, &b.Price,
		&b.StockQuantity, &b.AvailableQuantity, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BookRepository) GetByExternalID(ctx context.Context, externalID int64) (*entity.Book, error) {
	b, err := scanBook(r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE external_id = $1`, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFound("book %d not found", externalID)
		}
		return nil, fmt.Errorf("get book %d: %w", externalID, err)
	}
	return b, nil
}

func (r *BookRepository) List(ctx context.Context) ([]entity.Book, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY external_id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *BookRepository) Upsert(ctx context.Context, b *entity.Book) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO books (external_id, title, author_name, price, stock_quantity, available_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO UPDATE
		SET title = EXCLUDED.title,
		    author_name = EXCLUDED.author_name,
		    price = EXCLUDED.price,
		    updated_at = now()
		RETURNING `+bookColumns,
		b.ExternalID, b.Title, b.AuthorName, b.Price, b.StockQuantity, b.AvailableQuantity)

	saved, err := scanBook(row)
	if err != nil {
		return fmt.Errorf("upsert book %d: %w", b.ExternalID, err)
	}
	*b = *saved
	return nil
}

func (r *BookRepository) UpdateStock(ctx context.Context, externalID int64, stock int) (*entity.Book, error) {
	if stock < 0 {
		return nil, errs.Validation("stock must not be negative")
	}
	row := r.db.QueryRow(ctx, `
		UPDATE books
		SET available_quantity = available_quantity + ($2 - stock_quantity),
		    stock_quantity = $2,
		    updated_at = now()
		WHERE external_id = $1
		RETURNING `+bookColumns, externalID, stock)

	b, err := scanBook(row)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, errs.NotFound("book %d not found", externalID)
		case pgCode(err) == codeCheckViolation:
			return nil, errs.Conflict("book %d has more copies rented than the new stock", externalID)
		}
		return nil, fmt.Errorf("update stock of book %d: %w", externalID, err)
	}
	return b, nil
}

func (r *BookRepository) DecrementAvailable(ctx context.Context, externalID int64) error {
	res, err := r.db.Exec(ctx, `
		UPDATE books
		SET available_quantity = available_quantity - 1, updated_at = now()
		WHERE external_id = $1 AND available_quantity > 0
	`, externalID)
	if err != nil {
		return fmt.Errorf("decrement availability of book %d: %w", externalID, err)
	}
	if res.RowsAffected() == 0 {
		return errs.Conflict("book %d is not available", externalID)
	}
	return nil
}

func (r *BookRepository) IncrementAvailable(ctx context.Context, externalID int64) error {
	res, err := r.db.Exec(ctx, `
		UPDATE books
		SET available_quantity = available_quantity + 1, updated_at = now()
		WHERE external_id = $1
	`, externalID)
	if err != nil {
		return fmt.Errorf("increment availability of book %d: %w", externalID, err)
	}
	if res.RowsAffected() == 0 {
		return errs.NotFound("book %d not found", externalID)
	}
	return nil
}

var _ repository.BookRepository = (*BookRepository)(nil)
