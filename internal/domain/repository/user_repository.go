package repository

import (
	"context"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Lookups of unknown ids return an error wrapping errs.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error
}
