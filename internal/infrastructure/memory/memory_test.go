package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
	"github.com/ErlanBelekov/job-tracker/internal/repository"
)

var (
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.ApplicationRepository = (*ApplicationRepository)(nil)
	_ repository.ReminderRepository    = (*ApplicationRepository)(nil)
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestDB() (*DB, *testClock) {
	clock := &testClock{t: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
	db := New()
	db.now = clock.now
	return db, clock
}

func seedUser(t *testing.T, db *DB, email string) *domain.User {
	t.Helper()
	u, err := db.Users().Create(context.Background(), &domain.User{Name: "User", Email: email, PasswordHash: "h"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserRepository_EmailLookupIsCaseInsensitive(t *testing.T) {
	db, _ := newTestDB()
	u := seedUser(t, db, "ada@example.com")

	got, err := db.Users().FindByEmail(context.Background(), "ADA@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("FindByEmail = %+v, %v", got, err)
	}
	_, err = db.Users().Create(context.Background(), &domain.User{Email: "Ada@Example.COM"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestApplicationRepository_ReturnsCopies(t *testing.T) {
	db, _ := newTestDB()
	u := seedUser(t, db, "ada@example.com")
	repo := db.Applications()

	created, err := repo.Create(context.Background(), &domain.Application{UserID: u.ID, Company: "Acme", Position: "SRE", Status: domain.StatusApplied})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	created.Company = "mutated"

	got, err := repo.GetByID(context.Background(), created.ID, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Company != "Acme" {
		t.Fatalf("stored record was mutated through returned pointer")
	}
}

func TestClaimDueReminders(t *testing.T) {
	db, clock := newTestDB()
	u := seedUser(t, db, "ada@example.com")
	repo := db.Applications()
	ctx := context.Background()

	past := clock.t.Add(-time.Hour)
	future := clock.t.Add(24 * time.Hour)
	due, _ := repo.Create(ctx, &domain.Application{UserID: u.ID, Company: "Due", Position: "P", Status: domain.StatusApplied, FollowUpDate: &past})
	repo.Create(ctx, &domain.Application{UserID: u.ID, Company: "Later", Position: "P", Status: domain.StatusApplied, FollowUpDate: &future})
	repo.Create(ctx, &domain.Application{UserID: u.ID, Company: "None", Position: "P", Status: domain.StatusApplied})

	claimed, err := repo.ClaimDueReminders(ctx, 10)
	if err != nil {
		t.Fatalf("ClaimDueReminders: %v", err)
	}
	if len(claimed) != 1 || claimed[0].ApplicationID != due.ID || claimed[0].UserEmail != "ada@example.com" {
		t.Fatalf("claimed = %+v", claimed)
	}

	again, _ := repo.ClaimDueReminders(ctx, 10)
	if len(again) != 0 {
		t.Fatalf("expected claimed reminder not to be claimed twice, got %d", len(again))
	}

	if err := repo.ReleaseReminder(ctx, due.ID); err != nil {
		t.Fatalf("ReleaseReminder: %v", err)
	}
	again, _ = repo.ClaimDueReminders(ctx, 10)
	if len(again) != 1 {
		t.Fatalf("expected released reminder to be claimable, got %d", len(again))
	}

	// Moving the follow-up date re-arms the reminder.
	clock.t = clock.t.Add(48 * time.Hour)
	newDate := clock.t.Add(-time.Minute)
	if _, err := repo.Update(ctx, due.ID, u.ID, domain.ApplicationPatch{SetFollowUpDate: true, FollowUpDate: &newDate}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ = repo.ClaimDueReminders(ctx, 1)
	if len(again) != 1 {
		t.Fatalf("expected limit of 1 to be respected, got %d", len(again))
	}
}

func TestClaimDueReminders_NonPositiveLimitClaimsNothing(t *testing.T) {
	db, clock := newTestDB()
	u := seedUser(t, db, "ada@example.com")
	repo := db.Applications()
	ctx := context.Background()

	past := clock.t.Add(-time.Hour)
	if _, err := repo.Create(ctx, &domain.Application{UserID: u.ID, Company: "Due", Position: "P", Status: domain.StatusApplied, FollowUpDate: &past}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, limit := range []int{0, -1} {
		claimed, err := repo.ClaimDueReminders(ctx, limit)
		if err != nil || len(claimed) != 0 {
			t.Fatalf("limit %d: claimed = %+v, err = %v", limit, claimed, err)
		}
	}

	claimed, _ := repo.ClaimDueReminders(ctx, 1)
	if len(claimed) != 1 {
		t.Fatalf("reminder should still be claimable, got %d", len(claimed))
	}
}

func TestList_SameTimestampNewestInsertFirst(t *testing.T) {
	db, _ := newTestDB()
	u := seedUser(t, db, "ada@example.com")
	repo := db.Applications()
	ctx := context.Background()

	first, _ := repo.Create(ctx, &domain.Application{UserID: u.ID, Company: "First", Position: "P", Status: domain.StatusApplied})
	second, _ := repo.Create(ctx, &domain.Application{UserID: u.ID, Company: "Second", Position: "P", Status: domain.StatusApplied})
	if !first.CreatedAt.Equal(second.CreatedAt) {
		t.Fatal("expected both records to share a timestamp under the fixed clock")
	}

	got, err := repo.List(ctx, repository.ListApplicationsInput{UserID: u.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("order = %s, %s; want Second, First", got[0].Company, got[1].Company)
	}
}
