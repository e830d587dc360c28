// Package memory holds mutex-guarded in-memory repositories. It backs
// STORAGE=memory for local development and the HTTP-level tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
)

type DB struct {
	mu sync.RWMutex

	users  map[string]*domain.User
	emails map[string]string // lower-cased email -> user id

	apps map[string]*domain.Application
	seq  map[string]int64 // application id -> insertion order
	next int64

	now func() time.Time
}

func New() *DB {
	return &DB{
		users:  make(map[string]*domain.User),
		emails: make(map[string]string),
		apps:   make(map[string]*domain.Application),
		seq:    make(map[string]int64),
		now:    time.Now,
	}
}

// Ping satisfies health.Pinger.
func (db *DB) Ping(_ context.Context) error { return nil }

func (db *DB) Users() *UserRepository { return &UserRepository{db: db} }

func (db *DB) Applications() *ApplicationRepository { return &ApplicationRepository{db: db} }
