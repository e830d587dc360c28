package memory

import (
	"context"
	"strings"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
	"github.com/google/uuid"
)

type UserRepository struct {
	db *DB
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.db.emails[key]; exists {
		return nil, domain.ErrDuplicateEmail
	}

	u := *user
	u.ID = uuid.NewString()
	u.CreatedAt = r.db.now()
	u.UpdatedAt = u.CreatedAt

	r.db.users[u.ID] = &u
	r.db.emails[key] = u.ID

	out := u
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	id, ok := r.db.emails[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *r.db.users[id]
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}
