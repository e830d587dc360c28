// Package state holds the client's application list and the derived views
// rendered from it. Local state changes only after the server confirms a
// write.
package state

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/ErlanBelekov/job-tracker/internal/client/api"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

// FilterAll disables status filtering.
const FilterAll = "All"

const (
	msgFetchFailed    = "Failed to fetch applications. Please try again."
	msgCreateFailed   = "Failed to create application. Please try again."
	msgUpdateFailed   = "Failed to update application. Please try again."
	msgDeleteFailed   = "Failed to delete application. Please try again."
	msgConflict       = "Application was changed elsewhere. Reload and try again."
	msgSessionExpired = "Your session has expired. Please log in again."
)

var ErrUnknownStatus = errors.New("unknown status filter")

type applicationAPI interface {
	ListApplications(ctx context.Context, status string) ([]api.Application, error)
	CreateApplication(ctx context.Context, in api.CreateApplication) (*api.Application, error)
	UpdateApplication(ctx context.Context, id string, in api.UpdateApplication) (*api.Application, error)
	DeleteApplication(ctx context.Context, id string) error
}

// notifier is satisfied by *toast.Center.
type notifier interface {
	Success(message string) int64
	Error(message string) int64
}

type Controller struct {
	api    applicationAPI
	toasts notifier

	mu           sync.Mutex
	phase        Phase
	banner       string
	applications []api.Application
	filterStatus string
	search       string
}

func NewController(client applicationAPI, toasts notifier) *Controller {
	return &Controller{
		api:          client,
		toasts:       toasts,
		phase:        PhaseIdle,
		filterStatus: FilterAll,
	}
}

// Snapshot is the render state besides the list itself.
type Snapshot struct {
	Phase        Phase
	Banner       string
	FilterStatus string
	Search       string
	Total        int
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Phase:        c.phase,
		Banner:       c.banner,
		FilterStatus: c.filterStatus,
		Search:       c.search,
		Total:        len(c.applications),
	}
}

// Load replaces the list with the server's copy.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.phase = PhaseLoading
	c.mu.Unlock()

	apps, err := c.api.ListApplications(ctx, "")

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.phase = PhaseError
		c.banner = msgFetchFailed
		return fmt.Errorf("load applications: %w", err)
	}
	c.applications = apps
	c.phase = PhaseReady
	c.banner = ""
	return nil
}

func (c *Controller) SetFilterStatus(status string) error {
	if status != FilterAll && !slices.Contains(api.Statuses, status) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filterStatus = status
	return nil
}

func (c *Controller) SetSearch(keyword string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = keyword
}

// Visible applies the status filter and the keyword search, a
// case-insensitive substring match over company and position.
func (c *Controller) Visible() []api.Application {
	c.mu.Lock()
	defer c.mu.Unlock()

	keyword := strings.ToLower(strings.TrimSpace(c.search))
	out := make([]api.Application, 0, len(c.applications))
	for _, a := range c.applications {
		if c.filterStatus != FilterAll && a.Status != c.filterStatus {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(a.Company), keyword) &&
			!strings.Contains(strings.ToLower(a.Position), keyword) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (c *Controller) Create(ctx context.Context, in api.CreateApplication) (*api.Application, error) {
	app, err := c.api.CreateApplication(ctx, in)
	if err != nil {
		c.toasts.Error(failureMessage(err, msgCreateFailed))
		return nil, err
	}

	c.mu.Lock()
	c.applications = append([]api.Application{*app}, c.applications...)
	c.mu.Unlock()

	c.toasts.Success("Application created successfully")
	return app, nil
}

func (c *Controller) Update(ctx context.Context, id string, in api.UpdateApplication) (*api.Application, error) {
	app, err := c.api.UpdateApplication(ctx, id, in)
	if err != nil {
		c.toasts.Error(failureMessage(err, msgUpdateFailed))
		return nil, err
	}

	c.mu.Lock()
	for i := range c.applications {
		if c.applications[i].ID == id {
			c.applications[i] = *app
			break
		}
	}
	c.mu.Unlock()

	c.toasts.Success("Application updated successfully")
	return app, nil
}

func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.api.DeleteApplication(ctx, id); err != nil {
		c.toasts.Error(failureMessage(err, msgDeleteFailed))
		return err
	}

	c.mu.Lock()
	c.applications = slices.DeleteFunc(c.applications, func(a api.Application) bool { return a.ID == id })
	c.mu.Unlock()

	c.toasts.Success("Application deleted successfully")
	return nil
}

// Find returns the loaded application with id.
func (c *Controller) Find(id string) (api.Application, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.applications {
		if a.ID == id {
			return a, true
		}
	}
	return api.Application{}, false
}

// Stats counts the loaded list by status. Every status is present.
func (c *Controller) Stats() api.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := api.Stats{Total: len(c.applications), ByStatus: make(map[string]int, len(api.Statuses))}
	for _, st := range api.Statuses {
		s.ByStatus[st] = 0
	}
	for _, a := range c.applications {
		s.ByStatus[a.Status]++
	}
	return s
}

func failureMessage(err error, fallback string) string {
	var apiErr *api.Error
	switch {
	case api.IsUnauthorized(err):
		return msgSessionExpired
	case api.IsConflict(err):
		return msgConflict
	case errors.As(err, &apiErr) && len(apiErr.Fields) > 0:
		return apiErr.Fields[0].Message
	case errors.As(err, &apiErr) && api.IsNotFound(err):
		return apiErr.Message
	}
	return fallback
}
