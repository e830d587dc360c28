package repository

import (
	"context"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
)

type ListApplicationsInput struct {
	UserID string
	Status domain.Status // empty = all statuses
}

// ApplicationRepository scopes every call by owner. A record that exists
// under a different owner is reported as domain.ErrApplicationNotFound.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) (*domain.Application, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Application, error)
	// List returns records newest-created first.
	List(ctx context.Context, input ListApplicationsInput) ([]*domain.Application, error)
	// Update applies patch and bumps the version. Returns
	// domain.ErrVersionConflict when patch.ExpectedVersion is set and stale.
	Update(ctx context.Context, id, userID string, patch domain.ApplicationPatch) (*domain.Application, error)
	Delete(ctx context.Context, id, userID string) error
	CountByStatus(ctx context.Context, userID string) (map[domain.Status]int, error)
}

// ReminderRepository is what the follow-up dispatcher needs.
type ReminderRepository interface {
	// ClaimDueReminders marks up to limit records whose follow-up date has
	// passed as reminded and returns them. Concurrent callers never receive
	// the same record.
	ClaimDueReminders(ctx context.Context, limit int) ([]*domain.FollowUpReminder, error)
	// ReleaseReminder undoes a claim so the record is picked up again.
	ReleaseReminder(ctx context.Context, applicationID string) error
}
