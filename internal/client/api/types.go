package api

import "time"

// Statuses mirrors the server's canonical status enumeration.
var Statuses = []string{"Applied", "Phone Screen", "Technical Interview", "Onsite", "Offer", "Rejected"}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type Application struct {
	ID           string     `json:"id"`
	Company      string     `json:"company"`
	Position     string     `json:"position"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes"`
	AppliedDate  time.Time  `json:"appliedDate"`
	FollowUpDate *time.Time `json:"followUpDate,omitempty"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type CreateApplication struct {
	Company      string  `json:"company"`
	Position     string  `json:"position"`
	Status       string  `json:"status,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	AppliedDate  *string `json:"appliedDate,omitempty"`
	FollowUpDate *string `json:"followUpDate,omitempty"`
}

// UpdateApplication is a partial update; nil fields are not sent. An empty
// FollowUpDate clears it on the server.
type UpdateApplication struct {
	Company      *string `json:"company,omitempty"`
	Position     *string `json:"position,omitempty"`
	Status       *string `json:"status,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	AppliedDate  *string `json:"appliedDate,omitempty"`
	FollowUpDate *string `json:"followUpDate,omitempty"`
	Version      *int    `json:"version,omitempty"`
}

type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}
