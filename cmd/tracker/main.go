// tracker is the terminal client for the job tracker API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ErlanBelekov/job-tracker/internal/client/api"
	"github.com/ErlanBelekov/job-tracker/internal/client/cli"
	"github.com/ErlanBelekov/job-tracker/internal/client/config"
	"github.com/ErlanBelekov/job-tracker/internal/client/state"
	"github.com/ErlanBelekov/job-tracker/internal/client/toast"
	"github.com/ErlanBelekov/job-tracker/internal/client/tokenstore"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.New(cfg.APIURL, tokenstore.NewFile(cfg.ConfigDir),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		api.WithUnauthorizedHandler(func() {
			fmt.Fprintln(os.Stderr, "session expired, please log in")
		}),
	)
	toasts := toast.NewCenter()
	app := cli.NewApp(client, state.NewController(client, toasts), toasts, os.Stdin, os.Stdout, cfg.Timeout)

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		return exitCode(os.Stderr, err)
	}
	return 0
}

// exitCode reports err and maps usage errors to 2. A bare usage error has
// already printed the help text.
func exitCode(w io.Writer, err error) int {
	if !errors.Is(err, cli.ErrUsage) {
		fmt.Fprintln(w, "error:", err)
		return 1
	}
	if msg := err.Error(); msg != cli.ErrUsage.Error() {
		fmt.Fprintln(w, "error:", msg)
	}
	return 2
}
