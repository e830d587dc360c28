package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ErlanBelekov/job-tracker/internal/client/api"
)

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flags("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var err error
	if *name == "" {
		if *name, err = prompt(a.in, a.out, "Name"); err != nil {
			return err
		}
	}
	if *email == "" {
		if *email, err = prompt(a.in, a.out, "Email"); err != nil {
			return err
		}
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return err
	}

	res, err := a.account.Register(ctx, *name, *email, password)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "%s. Logged in as %s.\n", res.Message, res.User.Email)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var err error
	if *email == "" {
		if *email, err = prompt(a.in, a.out, "Email"); err != nil {
			return err
		}
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return err
	}

	res, err := a.account.Login(ctx, *email, password)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "%s. Welcome back, %s.\n", res.Message, res.User.Name)
	return nil
}

func (a *App) logout() error {
	if err := a.account.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) me(ctx context.Context) error {
	u, err := a.account.Me(ctx)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	fs := a.flags("list")
	status := fs.String("status", "All", "status filter")
	search := fs.String("search", "", "keyword matched against company and position")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if err := a.apps.SetFilterStatus(*status); err != nil {
		return err
	}
	a.apps.SetSearch(*search)

	if err := a.apps.Load(ctx); err != nil {
		fmt.Fprintln(a.out, a.apps.Snapshot().Banner)
		return err
	}

	visible := a.apps.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(a.out, "No applications found.")
		return nil
	}
	printTable(a.out, visible)
	return nil
}

func (a *App) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: show <id>", ErrUsage)
	}
	app, err := a.account.GetApplication(ctx, args[0])
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(a.out, "Company:    %s\n", app.Company)
	fmt.Fprintf(a.out, "Position:   %s\n", app.Position)
	fmt.Fprintf(a.out, "Status:     %s\n", app.Status)
	fmt.Fprintf(a.out, "Applied:    %s\n", app.AppliedDate.Format(dateLayout))
	if app.FollowUpDate != nil {
		fmt.Fprintf(a.out, "Follow up:  %s\n", app.FollowUpDate.Format(dateLayout))
	}
	fmt.Fprintf(a.out, "Version:    %d\n", app.Version)
	if app.Notes != "" {
		fmt.Fprintf(a.out, "\n%s\n", app.Notes)
	}
	return nil
}

func (a *App) add(ctx context.Context, args []string) error {
	fs := a.flags("add")
	in := api.CreateApplication{}
	fs.StringVar(&in.Company, "company", "", "company name (required)")
	fs.StringVar(&in.Position, "position", "", "position title (required)")
	fs.StringVar(&in.Status, "status", "", "initial status (default Applied)")
	fs.StringVar(&in.Notes, "notes", "", "free-form notes")
	applied := fs.String("applied", "", "applied date, YYYY-MM-DD")
	followUp := fs.String("follow-up", "", "follow-up date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if *applied != "" {
		in.AppliedDate = applied
	}
	if *followUp != "" {
		in.FollowUpDate = followUp
	}

	app, err := a.apps.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s\n", app.ID)
	return nil
}

// update takes the id first so flags may follow it.
func (a *App) update(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("%w: update <id> [flags]", ErrUsage)
	}
	id := args[0]

	fs := a.flags("update")
	company := fs.String("company", "", "company name")
	position := fs.String("position", "", "position title")
	status := fs.String("status", "", "status")
	notes := fs.String("notes", "", "notes")
	applied := fs.String("applied", "", "applied date")
	followUp := fs.String("follow-up", "", "follow-up date, empty to clear")
	version := fs.Int("version", 0, "expected version")
	if err := fs.Parse(args[1:]); err != nil {
		return ErrUsage
	}

	var in api.UpdateApplication
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "company":
			in.Company = company
		case "position":
			in.Position = position
		case "status":
			in.Status = status
		case "notes":
			in.Notes = notes
		case "applied":
			in.AppliedDate = applied
		case "follow-up":
			in.FollowUpDate = followUp
		case "version":
			in.Version = version
		}
	})

	app, err := a.apps.Update(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s (version %d)\n", app.ID, app.Version)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete <id>", ErrUsage)
	}
	return a.apps.Delete(ctx, args[0])
}

func (a *App) stats(ctx context.Context) error {
	s, err := a.account.Stats(ctx)
	if err != nil {
		return describe(err)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, st := range api.Statuses {
		fmt.Fprintf(w, "%s\t%d\n", st, s.ByStatus[st])
	}
	fmt.Fprintf(w, "Total\t%d\n", s.Total)
	return w.Flush()
}

const dateLayout = "2006-01-02"

func printTable(out io.Writer, apps []api.Application) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMPANY\tPOSITION\tSTATUS\tAPPLIED\tFOLLOW UP")
	for _, app := range apps {
		follow := "-"
		if app.FollowUpDate != nil {
			follow = app.FollowUpDate.Format(dateLayout)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			app.ID, app.Company, app.Position, app.Status, app.AppliedDate.Format(dateLayout), follow)
	}
	_ = w.Flush()
}

// describe turns API errors into something worth printing.
func describe(err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if len(apiErr.Fields) == 0 {
		return errors.New(apiErr.Message)
	}
	msgs := make([]string, len(apiErr.Fields))
	for i, f := range apiErr.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return fmt.Errorf("%s: %s", apiErr.Message, strings.Join(msgs, "; "))
}
