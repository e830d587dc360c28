package repository

import (
	"context"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
)

type UserRepository interface {
	// Create stores a new user. Returns domain.ErrDuplicateEmail when the
	// email (compared case-insensitively) is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
