package domain

import (
	"errors"
	"time"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrVersionConflict     = errors.New("application was modified by another request")
)

type Status string

const (
	StatusApplied            Status = "Applied"
	StatusPhoneScreen        Status = "Phone Screen"
	StatusTechnicalInterview Status = "Technical Interview"
	StatusOnsite             Status = "Onsite"
	StatusOffer              Status = "Offer"
	StatusRejected           Status = "Rejected"
)

// Statuses is the canonical, ordered status enumeration shared by the API
// and its clients.
var Statuses = []Status{
	StatusApplied,
	StatusPhoneScreen,
	StatusTechnicalInterview,
	StatusOnsite,
	StatusOffer,
	StatusRejected,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Field limits enforced on every mutation.
const (
	MaxCompanyLen  = 200
	MaxPositionLen = 200
	MaxNotesLen    = 2000
)

type Application struct {
	ID           string
	UserID       string
	Company      string
	Position     string
	Status       Status
	Notes        string
	AppliedDate  time.Time
	FollowUpDate *time.Time // nil means no follow-up planned

	// Version starts at 1 and is bumped by every update.
	Version int

	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ApplicationPatch carries the fields of a partial update. Nil pointers are
// left untouched.
type ApplicationPatch struct {
	Company     *string
	Position    *string
	Status      *Status
	Notes       *string
	AppliedDate *time.Time

	// FollowUpDate is applied only when SetFollowUpDate is true, so that a
	// nil value can clear the stored date.
	SetFollowUpDate bool
	FollowUpDate    *time.Time

	// ExpectedVersion enables the optimistic-concurrency check when non-nil.
	ExpectedVersion *int
}

func (p ApplicationPatch) Empty() bool {
	return p.Company == nil && p.Position == nil && p.Status == nil &&
		p.Notes == nil && p.AppliedDate == nil && !p.SetFollowUpDate
}

type ApplicationStats struct {
	Total    int
	ByStatus map[Status]int
}

// FollowUpReminder is a claimed application whose follow-up date has passed,
// joined with the owner's contact details.
type FollowUpReminder struct {
	ApplicationID string
	UserName      string
	UserEmail     string
	Company       string
	Position      string
	Status        Status
	FollowUpDate  time.Time
}
