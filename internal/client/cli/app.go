// Package cli is the terminal front end: one subcommand per invocation,
// backed by the state controller and the API client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ErlanBelekov/job-tracker/internal/client/api"
	"github.com/ErlanBelekov/job-tracker/internal/client/state"
	"github.com/ErlanBelekov/job-tracker/internal/client/toast"
)

// ErrUsage is returned for unknown commands and bad arguments.
var ErrUsage = errors.New("usage error")

type accountAPI interface {
	Register(ctx context.Context, name, email, password string) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Logout() error
	Me(ctx context.Context) (*api.User, error)
	GetApplication(ctx context.Context, id string) (*api.Application, error)
	Stats(ctx context.Context) (*api.Stats, error)
}

type App struct {
	account accountAPI
	apps    *state.Controller
	toasts  *toast.Center
	in      *bufio.Reader
	out     io.Writer
	timeout time.Duration
}

func NewApp(account accountAPI, apps *state.Controller, toasts *toast.Center, in io.Reader, out io.Writer, timeout time.Duration) *App {
	return &App{
		account: account,
		apps:    apps,
		toasts:  toasts,
		in:      bufio.NewReader(in),
		out:     out,
		timeout: timeout,
	}
}

const usage = `usage: tracker <command> [flags]

commands:
  register   create an account and log in
  login      log in
  logout     forget the stored session
  me         show the logged-in user
  list       list applications (--status, --search)
  show       show one application by id
  add        add an application
  update     update an application by id
  delete     delete an application by id
  stats      count applications by status
`

// Run executes one command. Each command gets its own deadline.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "register":
		err = a.register(ctx, rest)
	case "login":
		err = a.login(ctx, rest)
	case "logout":
		err = a.logout()
	case "me":
		err = a.me(ctx)
	case "list", "ls":
		err = a.list(ctx, rest)
	case "show":
		err = a.show(ctx, rest)
	case "add":
		err = a.add(ctx, rest)
	case "update":
		err = a.update(ctx, rest)
	case "delete", "rm":
		err = a.delete(ctx, rest)
	case "stats":
		err = a.stats(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
	default:
		fmt.Fprintf(a.out, "unknown command %q\n\n%s", cmd, usage)
		return ErrUsage
	}

	a.flushToasts()
	return err
}

// flushToasts prints and dismisses pending notifications. A one-shot
// process has nowhere else to show them.
func (a *App) flushToasts() {
	for _, t := range a.toasts.Active() {
		fmt.Fprintf(a.out, "[%s] %s\n", t.Kind, t.Message)
		a.toasts.Dismiss(t.ID)
	}
}
