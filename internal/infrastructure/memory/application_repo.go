package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
	"github.com/ErlanBelekov/job-tracker/internal/repository"
	"github.com/google/uuid"
)

type ApplicationRepository struct {
	db *DB
}

func (r *ApplicationRepository) Create(_ context.Context, app *domain.Application) (*domain.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a := *app
	a.ID = uuid.NewString()
	a.Version = 1
	a.ReminderSentAt = nil
	a.CreatedAt = r.db.now()
	a.UpdatedAt = a.CreatedAt

	r.db.next++
	r.db.apps[a.ID] = &a
	r.db.seq[a.ID] = r.db.next

	return clone(&a), nil
}

// owned must be called with the lock held.
func (r *ApplicationRepository) owned(id, userID string) (*domain.Application, bool) {
	a, ok := r.db.apps[id]
	if !ok || a.UserID != userID {
		return nil, false
	}
	return a, true
}

func (r *ApplicationRepository) GetByID(_ context.Context, id, userID string) (*domain.Application, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	a, ok := r.owned(id, userID)
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	return clone(a), nil
}

func (r *ApplicationRepository) List(_ context.Context, input repository.ListApplicationsInput) ([]*domain.Application, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*domain.Application, 0)
	for _, a := range r.db.apps {
		if a.UserID != input.UserID {
			continue
		}
		if input.Status != "" && a.Status != input.Status {
			continue
		}
		out = append(out, clone(a))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.db.seq[out[i].ID] > r.db.seq[out[j].ID]
	})
	return out, nil
}

func (r *ApplicationRepository) Update(_ context.Context, id, userID string, patch domain.ApplicationPatch) (*domain.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.owned(id, userID)
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	if patch.ExpectedVersion != nil && *patch.ExpectedVersion != a.Version {
		return nil, domain.ErrVersionConflict
	}

	if patch.Company != nil {
		a.Company = *patch.Company
	}
	if patch.Position != nil {
		a.Position = *patch.Position
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	if patch.AppliedDate != nil {
		a.AppliedDate = *patch.AppliedDate
	}
	if patch.SetFollowUpDate {
		a.FollowUpDate = copyTime(patch.FollowUpDate)
		a.ReminderSentAt = nil
	}
	a.Version++
	a.UpdatedAt = r.db.now()

	return clone(a), nil
}

func (r *ApplicationRepository) Delete(_ context.Context, id, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.owned(id, userID); !ok {
		return domain.ErrApplicationNotFound
	}
	delete(r.db.apps, id)
	delete(r.db.seq, id)
	return nil
}

func (r *ApplicationRepository) CountByStatus(_ context.Context, userID string) (map[domain.Status]int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	counts := make(map[domain.Status]int)
	for _, a := range r.db.apps {
		if a.UserID == userID {
			counts[a.Status]++
		}
	}
	return counts, nil
}

func (r *ApplicationRepository) ClaimDueReminders(_ context.Context, limit int) ([]*domain.FollowUpReminder, error) {
	if limit <= 0 {
		return nil, nil
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	due := make([]*domain.Application, 0)
	for _, a := range r.db.apps {
		if a.FollowUpDate != nil && a.ReminderSentAt == nil && !a.FollowUpDate.After(now) {
			due = append(due, a)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].FollowUpDate.Before(*due[j].FollowUpDate) })
	if len(due) > limit {
		due = due[:limit]
	}

	out := make([]*domain.FollowUpReminder, 0, len(due))
	for _, a := range due {
		sent := now
		a.ReminderSentAt = &sent

		u := r.db.users[a.UserID]
		rem := &domain.FollowUpReminder{
			ApplicationID: a.ID,
			Company:       a.Company,
			Position:      a.Position,
			Status:        a.Status,
			FollowUpDate:  *a.FollowUpDate,
		}
		if u != nil {
			rem.UserName = u.Name
			rem.UserEmail = u.Email
		}
		out = append(out, rem)
	}
	return out, nil
}

func (r *ApplicationRepository) ReleaseReminder(_ context.Context, applicationID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if a, ok := r.db.apps[applicationID]; ok {
		a.ReminderSentAt = nil
	}
	return nil
}

func clone(a *domain.Application) *domain.Application {
	out := *a
	out.FollowUpDate = copyTime(a.FollowUpDate)
	out.ReminderSentAt = copyTime(a.ReminderSentAt)
	return &out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
