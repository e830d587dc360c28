// seed creates a demo user with a spread of applications in the local dev
// database. Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
	"github.com/ErlanBelekov/job-tracker/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/job-tracker/internal/security"
	"github.com/ErlanBelekov/job-tracker/internal/usecase"
)

const (
	seedName     = "Demo User"
	seedEmail    = "demo@tracker.local"
	seedPassword = "Demo1234"
)

type appSpec struct {
	company  string
	position string
	status   domain.Status
	daysAgo  int
	followUp int // days from now, 0 means none
	notes    string
}

var apps = []appSpec{
	{"Acme Corp", "Backend Engineer", domain.StatusApplied, 2, 5, "Referral from Sam"},
	{"Globex", "Platform Engineer", domain.StatusPhoneScreen, 9, 1, ""},
	{"Initech", "SRE", domain.StatusTechnicalInterview, 14, -1, "System design round next"},
	{"Umbrella", "Go Developer", domain.StatusOnsite, 21, 0, ""},
	{"Hooli", "Staff Engineer", domain.StatusOffer, 30, 3, "Negotiate equity"},
	{"Vandelay", "Data Engineer", domain.StatusRejected, 40, 0, ""},
	{"Stark Industries", "Infrastructure Engineer", domain.StatusApplied, 1, 0, ""},
	{"Wayne Enterprises", "Security Engineer", domain.StatusPhoneScreen, 5, 0, "Recruiter: Lucius"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := postgres.Migrate(ctx, dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL, postgres.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	user, err := users.FindByEmail(ctx, seedEmail)
	if errors.Is(err, domain.ErrUserNotFound) {
		hash, hashErr := security.NewArgon2().Hash(seedPassword)
		if hashErr != nil {
			log.Fatalf("hash password: %v", hashErr)
		}
		user, err = users.Create(ctx, &domain.User{Name: seedName, Email: seedEmail, PasswordHash: hash})
	}
	if err != nil {
		log.Fatalf("seed user: %v", err)
	}

	uc := usecase.NewApplicationUsecase(postgres.NewApplicationRepository(pool))
	now := time.Now()

	for _, a := range apps {
		applied := now.AddDate(0, 0, -a.daysAgo).Format("2006-01-02")
		input := usecase.CreateApplicationInput{
			UserID:      user.ID,
			Company:     a.company,
			Position:    a.position,
			Status:      string(a.status),
			Notes:       a.notes,
			AppliedDate: &applied,
		}
		if a.followUp != 0 {
			f := now.AddDate(0, 0, a.followUp).Format("2006-01-02")
			input.FollowUpDate = &f
		}

		app, err := uc.CreateApplication(ctx, input)
		if err != nil {
			log.Fatalf("create %s: %v", a.company, err)
		}
		fmt.Printf("  %-20s %-24s %-20s %s\n", app.Company, app.Position, app.Status, app.ID)
	}

	fmt.Printf("\nseeded %d applications for %s (password %s)\n", len(apps), seedEmail, seedPassword)
}
