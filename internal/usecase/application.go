package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
	"github.com/ErlanBelekov/job-tracker/internal/repository"
	"github.com/ErlanBelekov/job-tracker/internal/validation"
	"github.com/google/uuid"
)

type ApplicationUsecase struct {
	repo repository.ApplicationRepository
	now  func() time.Time
}

func NewApplicationUsecase(repo repository.ApplicationRepository) *ApplicationUsecase {
	return &ApplicationUsecase{repo: repo, now: time.Now}
}

// Dates arrive as ISO-8601 strings and are parsed after validation.
type CreateApplicationInput struct {
	UserID       string  `json:"-"`
	Company      string  `json:"company"      validate:"notblank,max=200"`
	Position     string  `json:"position"     validate:"notblank,max=200"`
	Status       string  `json:"status"       validate:"omitempty,appstatus"`
	Notes        string  `json:"notes"        validate:"max=2000"`
	AppliedDate  *string `json:"appliedDate"  validate:"omitempty,iso8601"`
	FollowUpDate *string `json:"followUpDate" validate:"omitempty,iso8601"`
}

func (u *ApplicationUsecase) CreateApplication(ctx context.Context, input CreateApplicationInput) (*domain.Application, error) {
	input.Company = strings.TrimSpace(input.Company)
	input.Position = strings.TrimSpace(input.Position)
	input.Notes = strings.TrimSpace(input.Notes)
	input.AppliedDate = blankToNil(input.AppliedDate)
	input.FollowUpDate = blankToNil(input.FollowUpDate)

	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	status := domain.Status(input.Status)
	if status == "" {
		status = domain.StatusApplied
	}

	appliedDate := u.now()
	if input.AppliedDate != nil {
		t, err := parseDate("appliedDate", *input.AppliedDate)
		if err != nil {
			return nil, err
		}
		appliedDate = t
	}

	followUp, err := parseOptionalDate("followUpDate", input.FollowUpDate)
	if err != nil {
		return nil, err
	}

	created, err := u.repo.Create(ctx, &domain.Application{
		UserID:       input.UserID,
		Company:      input.Company,
		Position:     input.Position,
		Status:       status,
		Notes:        input.Notes,
		AppliedDate:  appliedDate,
		FollowUpDate: followUp,
	})
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return created, nil
}

func (u *ApplicationUsecase) GetApplication(ctx context.Context, id, userID string) (*domain.Application, error) {
	if !validID(id) {
		return nil, domain.ErrApplicationNotFound
	}
	app, err := u.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

type ListApplicationsInput struct {
	UserID string
	Status string `json:"status" validate:"omitempty,appstatus"`
}

func (u *ApplicationUsecase) ListApplications(ctx context.Context, input ListApplicationsInput) ([]*domain.Application, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	apps, err := u.repo.List(ctx, repository.ListApplicationsInput{
		UserID: input.UserID,
		Status: domain.Status(input.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []*domain.Application{}
	}
	return apps, nil
}

// UpdateApplicationInput is a partial update: nil fields are left unchanged.
// An empty FollowUpDate clears the stored date.
type UpdateApplicationInput struct {
	ID           string  `json:"-"`
	UserID       string  `json:"-"`
	Company      *string `json:"company"      validate:"omitempty,notblank,max=200"`
	Position     *string `json:"position"     validate:"omitempty,notblank,max=200"`
	Status       *string `json:"status"       validate:"omitempty,appstatus"`
	Notes        *string `json:"notes"        validate:"omitempty,max=2000"`
	AppliedDate  *string `json:"appliedDate"  validate:"omitempty,iso8601"`
	FollowUpDate *string `json:"followUpDate" validate:"omitempty,iso8601"`
	Version      *int    `json:"version"      validate:"omitempty,min=1"`
}

func (u *ApplicationUsecase) UpdateApplication(ctx context.Context, input UpdateApplicationInput) (*domain.Application, error) {
	if !validID(input.ID) {
		return nil, domain.ErrApplicationNotFound
	}

	input.Company = trimPtr(input.Company)
	input.Position = trimPtr(input.Position)
	input.Notes = trimPtr(input.Notes)

	clearFollowUp := input.FollowUpDate != nil && strings.TrimSpace(*input.FollowUpDate) == ""
	if clearFollowUp {
		input.FollowUpDate = nil
	}

	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	patch := domain.ApplicationPatch{
		Company:         input.Company,
		Position:        input.Position,
		Notes:           input.Notes,
		ExpectedVersion: input.Version,
	}
	if input.Status != nil {
		s := domain.Status(*input.Status)
		patch.Status = &s
	}
	applied, err := parseOptionalDate("appliedDate", input.AppliedDate)
	if err != nil {
		return nil, err
	}
	patch.AppliedDate = applied

	if clearFollowUp || input.FollowUpDate != nil {
		patch.SetFollowUpDate = true
		if patch.FollowUpDate, err = parseOptionalDate("followUpDate", input.FollowUpDate); err != nil {
			return nil, err
		}
	}

	if patch.Empty() {
		app, err := u.repo.GetByID(ctx, input.ID, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("get application: %w", err)
		}
		if input.Version != nil && *input.Version != app.Version {
			return nil, domain.ErrVersionConflict
		}
		return app, nil
	}

	app, err := u.repo.Update(ctx, input.ID, input.UserID, patch)
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	return app, nil
}

func (u *ApplicationUsecase) DeleteApplication(ctx context.Context, id, userID string) error {
	if !validID(id) {
		return domain.ErrApplicationNotFound
	}
	if err := u.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}

func (u *ApplicationUsecase) Stats(ctx context.Context, userID string) (domain.ApplicationStats, error) {
	counts, err := u.repo.CountByStatus(ctx, userID)
	if err != nil {
		return domain.ApplicationStats{}, fmt.Errorf("count applications: %w", err)
	}

	stats := domain.ApplicationStats{ByStatus: make(map[domain.Status]int, len(domain.Statuses))}
	for _, s := range domain.Statuses {
		stats.ByStatus[s] = counts[s]
		stats.Total += counts[s]
	}
	return stats, nil
}

// Record ids are UUIDs; anything else cannot exist.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func parseDate(field, s string) (time.Time, error) {
	t, err := validation.ParseDate(s)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "Date must be ISO-8601")
	}
	return t, nil
}

func parseOptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
