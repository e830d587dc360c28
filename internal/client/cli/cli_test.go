package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/job-tracker/internal/client/api"
	"github.com/ErlanBelekov/job-tracker/internal/client/state"
	"github.com/ErlanBelekov/job-tracker/internal/client/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	apps []api.Application

	gotPassword string
	gotUpdate   api.UpdateApplication
	loggedOut   bool
	deleteErr   error
}

func (f *fakeBackend) Register(_ context.Context, name, email, password string) (*api.AuthResponse, error) {
	f.gotPassword = password
	return &api.AuthResponse{Message: "User registered successfully", Token: "t", User: api.User{Name: name, Email: email}}, nil
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (*api.AuthResponse, error) {
	f.gotPassword = password
	if password != "Secret123" {
		return nil, &api.Error{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	return &api.AuthResponse{Message: "Login successful", Token: "t", User: api.User{Name: "Ada", Email: email}}, nil
}

func (f *fakeBackend) Logout() error { f.loggedOut = true; return nil }

func (f *fakeBackend) Me(context.Context) (*api.User, error) {
	return &api.User{Name: "Ada", Email: "ada@example.com"}, nil
}

func (f *fakeBackend) GetApplication(_ context.Context, id string) (*api.Application, error) {
	for _, a := range f.apps {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, &api.Error{Status: http.StatusNotFound, Message: "Application not found"}
}

func (f *fakeBackend) Stats(context.Context) (*api.Stats, error) {
	s := &api.Stats{Total: len(f.apps), ByStatus: map[string]int{}}
	for _, a := range f.apps {
		s.ByStatus[a.Status]++
	}
	return s, nil
}

func (f *fakeBackend) ListApplications(context.Context, string) ([]api.Application, error) {
	return append([]api.Application(nil), f.apps...), nil
}

func (f *fakeBackend) CreateApplication(_ context.Context, in api.CreateApplication) (*api.Application, error) {
	if in.Company == "" {
		return nil, &api.Error{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Fields:  []api.FieldError{{Field: "company", Message: "Company is required"}},
		}
	}
	app := api.Application{ID: "new", Company: in.Company, Position: in.Position, Status: "Applied", Version: 1}
	f.apps = append([]api.Application{app}, f.apps...)
	return &app, nil
}

func (f *fakeBackend) UpdateApplication(_ context.Context, id string, in api.UpdateApplication) (*api.Application, error) {
	f.gotUpdate = in
	return &api.Application{ID: id, Company: "Acme", Position: "Engineer", Status: "Onsite", Version: 2}, nil
}

func (f *fakeBackend) DeleteApplication(context.Context, string) error { return f.deleteErr }

func newTestApp(backend *fakeBackend, input string) (*App, *bytes.Buffer) {
	toasts := toast.NewCenter(toast.WithTTL(time.Hour))
	var out bytes.Buffer
	app := NewApp(backend, state.NewController(backend, toasts), toasts, strings.NewReader(input), &out, time.Second)
	return app, &out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func seededBackend() *fakeBackend {
	return &fakeBackend{apps: []api.Application{
		{ID: "a1", Company: "Acme", Position: "Engineer", Status: "Applied", Version: 1},
		{ID: "g1", Company: "Globex", Position: "Analyst", Status: "Offer", Version: 1},
	}}
}

func TestRunWithoutCommand(t *testing.T) {
	app, out := newTestApp(&fakeBackend{}, "")
	err := app.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out.String(), "usage: tracker")
}

func TestRunUnknownCommand(t *testing.T) {
	app, out := newTestApp(&fakeBackend{}, "")
	err := app.Run(context.Background(), []string{"frobnicate"})
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out.String(), `unknown command "frobnicate"`)
}

func TestLoginPromptsForEmailAndPassword(t *testing.T) {
	stubPassword(t, "Secret123")
	backend := &fakeBackend{}
	app, out := newTestApp(backend, "ada@example.com\n")

	require.NoError(t, app.Run(context.Background(), []string{"login"}))
	assert.Equal(t, "Secret123", backend.gotPassword)
	assert.Contains(t, out.String(), "Login successful. Welcome back, Ada.")
}

func TestLoginWrongPassword(t *testing.T) {
	stubPassword(t, "nope")
	app, _ := newTestApp(&fakeBackend{}, "")

	err := app.Run(context.Background(), []string{"login", "--email", "ada@example.com"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestLoginPasswordReadFails(t *testing.T) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
	t.Cleanup(func() { readPassword = orig })

	app, _ := newTestApp(&fakeBackend{}, "")
	err := app.Run(context.Background(), []string{"login", "--email", "ada@example.com"})
	assert.ErrorContains(t, err, "not a terminal")
}

func TestRegister(t *testing.T) {
	stubPassword(t, "Secret123")
	app, out := newTestApp(&fakeBackend{}, "")

	require.NoError(t, app.Run(context.Background(), []string{"register", "--name", "Ada", "--email", "ada@example.com"}))
	assert.Contains(t, out.String(), "User registered successfully. Logged in as ada@example.com.")
}

func TestLogout(t *testing.T) {
	backend := &fakeBackend{}
	app, out := newTestApp(backend, "")

	require.NoError(t, app.Run(context.Background(), []string{"logout"}))
	assert.True(t, backend.loggedOut)
	assert.Contains(t, out.String(), "Logged out.")
}

func TestListFiltersAndSearches(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{name: "all", args: []string{"list"}, want: []string{"Acme", "Globex"}},
		{name: "status", args: []string{"list", "--status", "Offer"}, want: []string{"Globex"}, notWant: []string{"Acme"}},
		{name: "search", args: []string{"list", "--search", "acm"}, want: []string{"Acme"}, notWant: []string{"Globex"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out := newTestApp(seededBackend(), "")
			require.NoError(t, app.Run(context.Background(), tt.args))

			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, out.String(), nw)
			}
		})
	}
}

func TestListEmpty(t *testing.T) {
	app, out := newTestApp(&fakeBackend{}, "")
	require.NoError(t, app.Run(context.Background(), []string{"list"}))
	assert.Contains(t, out.String(), "No applications found.")
}

func TestListRejectsUnknownStatus(t *testing.T) {
	app, _ := newTestApp(seededBackend(), "")
	err := app.Run(context.Background(), []string{"list", "--status", "Hired"})
	assert.ErrorIs(t, err, state.ErrUnknownStatus)
}

func TestAddPrintsToast(t *testing.T) {
	app, out := newTestApp(seededBackend(), "")

	require.NoError(t, app.Run(context.Background(), []string{"add", "--company", "Initech", "--position", "Dev"}))
	assert.Contains(t, out.String(), "Created new")
	assert.Contains(t, out.String(), "[success] Application created successfully")
}

func TestAddValidationFailure(t *testing.T) {
	app, out := newTestApp(seededBackend(), "")

	err := app.Run(context.Background(), []string{"add", "--position", "Dev"})
	require.Error(t, err)
	assert.Contains(t, out.String(), "[error] Company is required")
}

func TestUpdateSendsOnlyGivenFlags(t *testing.T) {
	backend := seededBackend()
	app, out := newTestApp(backend, "")

	require.NoError(t, app.Run(context.Background(), []string{"update", "a1", "--status", "Onsite", "--follow-up", "", "--version", "1"}))

	in := backend.gotUpdate
	require.NotNil(t, in.Status)
	assert.Equal(t, "Onsite", *in.Status)
	require.NotNil(t, in.FollowUpDate)
	assert.Empty(t, *in.FollowUpDate)
	require.NotNil(t, in.Version)
	assert.Equal(t, 1, *in.Version)
	assert.Nil(t, in.Company)
	assert.Nil(t, in.Notes)
	assert.Contains(t, out.String(), "Updated a1 (version 2)")
}

func TestUpdateRequiresID(t *testing.T) {
	app, _ := newTestApp(seededBackend(), "")
	err := app.Run(context.Background(), []string{"update", "--status", "Offer"})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestDelete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, out := newTestApp(seededBackend(), "")
		require.NoError(t, app.Run(context.Background(), []string{"delete", "a1"}))
		assert.Contains(t, out.String(), "[success] Application deleted successfully")
	})

	t.Run("not found", func(t *testing.T) {
		backend := seededBackend()
		backend.deleteErr = &api.Error{Status: http.StatusNotFound, Message: "Application not found"}
		app, out := newTestApp(backend, "")

		require.Error(t, app.Run(context.Background(), []string{"delete", "zzz"}))
		assert.Contains(t, out.String(), "[error] Application not found")
	})
}

func TestShow(t *testing.T) {
	app, out := newTestApp(seededBackend(), "")
	require.NoError(t, app.Run(context.Background(), []string{"show", "g1"}))
	assert.Contains(t, out.String(), "Globex")
	assert.Contains(t, out.String(), "Offer")

	app, _ = newTestApp(seededBackend(), "")
	err := app.Run(context.Background(), []string{"show", "missing"})
	assert.EqualError(t, err, "Application not found")
}

func TestStats(t *testing.T) {
	app, out := newTestApp(seededBackend(), "")
	require.NoError(t, app.Run(context.Background(), []string{"stats"}))

	assert.Contains(t, out.String(), "Technical Interview")
	assert.Contains(t, out.String(), "Total")
}
