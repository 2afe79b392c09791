package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
	"github.com/oksasatya/go-library-rental/internal/domain/errs"
	repo "github.com/oksasatya/go-library-rental/internal/domain/repository"
)

type UserService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*UserResponse, error) {
	u := &entity.User{
		Name:  strings.TrimSpace(in.Name),
		Email: normalizeEmail(in.Email),
		Phone: strings.TrimSpace(in.Phone),
	}
	if u.Name == "" || u.Email == "" {
		return nil, errs.Validation("name and email are required")
	}
	if err := s.ensureEmailFree(ctx, u.Email, 0); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user created")
	}
	out := toUserResponse(u)
	return &out, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*UserResponse, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toUserResponse(u)
	return &out, nil
}

func (s *UserService) List(ctx context.Context) ([]UserResponse, error) {
	us, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(us))
	for i := range us {
		out = append(out, toUserResponse(&us[i]))
	}
	return out, nil
}

// Update applies the non-empty fields of in.
func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput) (*UserResponse, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if email := normalizeEmail(in.Email); email != "" && email != u.Email {
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		u.Email = email
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		u.Phone = phone
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	out := toUserResponse(u)
	return &out, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", id).Info("user deleted")
	}
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return errs.Conflict("email %s is already registered", email)
	}
	return nil
}
