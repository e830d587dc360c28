package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
	"github.com/ErlanBelekov/job-tracker/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationColumns = `id, user_id, company, position, status, notes,
	applied_date, follow_up_date, version, reminder_sent_at, created_at, updated_at`

// listOrder is newest first; seq breaks timestamp ties by insertion order.
const listOrder = "created_at DESC, seq DESC"

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	query := `
		INSERT INTO applications (
			user_id, company, position, status, notes, applied_date, follow_up_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + applicationColumns

	row := r.pool.QueryRow(ctx, query,
		app.UserID,
		app.Company,
		app.Position,
		app.Status,
		app.Notes,
		app.AppliedDate,
		app.FollowUpDate,
	)
	return scanApplication(row)
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id, userID string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE id = $1 AND user_id = $2`

	return scanApplication(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *ApplicationRepository) List(ctx context.Context, input repository.ListApplicationsInput) ([]*domain.Application, error) {
	args := []any{input.UserID}
	where := []string{"user_id = $1"}

	if input.Status != "" {
		args = append(args, input.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s
		FROM applications
		WHERE %s
		ORDER BY %s`,
		applicationColumns, strings.Join(where, " AND "), listOrder)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]*domain.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) Update(ctx context.Context, id, userID string, patch domain.ApplicationPatch) (*domain.Application, error) {
	args := []any{id, userID}
	set := []string{"version = version + 1", "updated_at = NOW()"}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Company != nil {
		add("company", *patch.Company)
	}
	if patch.Position != nil {
		add("position", *patch.Position)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.AppliedDate != nil {
		add("applied_date", *patch.AppliedDate)
	}
	if patch.SetFollowUpDate {
		add("follow_up_date", patch.FollowUpDate)
		set = append(set, "reminder_sent_at = NULL")
	}

	where := "id = $1 AND user_id = $2"
	if patch.ExpectedVersion != nil {
		args = append(args, *patch.ExpectedVersion)
		where += fmt.Sprintf(" AND version = $%d", len(args))
	}

	query := fmt.Sprintf(`UPDATE applications SET %s WHERE %s RETURNING %s`,
		strings.Join(set, ", "), where, applicationColumns)

	updated, err := scanApplication(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, domain.ErrApplicationNotFound) && patch.ExpectedVersion != nil {
		// Tell a stale version apart from a missing or foreign record.
		if _, getErr := r.GetByID(ctx, id, userID); getErr == nil {
			return nil, domain.ErrVersionConflict
		}
	}
	return updated, err
}

func (r *ApplicationRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context, userID string) (map[domain.Status]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM applications WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status domain.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *ApplicationRepository) ClaimDueReminders(ctx context.Context, limit int) ([]*domain.FollowUpReminder, error) {
	if limit <= 0 {
		return nil, nil
	}

	// FOR UPDATE SKIP LOCKED keeps concurrent dispatchers from claiming the same rows.
	query := `
		WITH due AS (
			SELECT id FROM applications
			WHERE  follow_up_date   <= NOW()
			  AND  reminder_sent_at IS NULL
			ORDER BY follow_up_date ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE applications a
		SET    reminder_sent_at = NOW()
		FROM   due, users u
		WHERE  a.id = due.id AND u.id = a.user_id
		RETURNING a.id, u.name, u.email, a.company, a.position, a.status, a.follow_up_date`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("claim reminders: %w", err)
	}
	defer rows.Close()

	var out []*domain.FollowUpReminder
	for rows.Next() {
		var rem domain.FollowUpReminder
		if err := rows.Scan(&rem.ApplicationID, &rem.UserName, &rem.UserEmail,
			&rem.Company, &rem.Position, &rem.Status, &rem.FollowUpDate); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		out = append(out, &rem)
	}
	return out, rows.Err()
}

func (r *ApplicationRepository) ReleaseReminder(ctx context.Context, applicationID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE applications SET reminder_sent_at = NULL WHERE id = $1`, applicationID)
	return err
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	var a domain.Application
	err := row.Scan(
		&a.ID, &a.UserID, &a.Company, &a.Position, &a.Status, &a.Notes,
		&a.AppliedDate, &a.FollowUpDate, &a.Version, &a.ReminderSentAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	return &a, nil
}
