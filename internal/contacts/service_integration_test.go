package contacts_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kinectapp/kinect/internal/contacts"
	"github.com/kinectapp/kinect/internal/users"
)

func setupIntegrationTest(t *testing.T) (*contacts.Service, string, func()) {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("skip integration test: TEST_POSTGRES_DSN is not set (run migrations first)")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("skip integration test: cannot connect to database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("skip integration test: database ping failed: %v", err)
	}

	userService := users.NewService(slog.Default(), pool)
	owner, err := userService.Create(ctx, users.CreateRequest{
		Username: fmt.Sprintf("it_owner_%d", time.Now().UnixNano()),
		Password: "hunter2hunter2",
	})
	if err != nil {
		pool.Close()
		t.Fatalf("create owner failed: %v", err)
	}

	svc := contacts.NewService(slog.Default(), pool)
	return svc, owner.ID, func() { pool.Close() }
}

func TestIntegrationContactLifecycle(t *testing.T) {
	svc, ownerID, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	days := 21
	created, err := svc.Create(ctx, ownerID, contacts.CreateRequest{
		FirstName:          "Grace",
		LastName:           "Hopper",
		Email:              "grace@example.com",
		Category:           contacts.CategoryBestFriend,
		CustomReminderDays: &days,
	})
	if err != nil {
		t.Fatalf("create contact failed: %v", err)
	}
	if created.CustomReminderDays == nil || *created.CustomReminderDays != 21 {
		t.Errorf("custom days = %v, want 21", created.CustomReminderDays)
	}
	if !created.LastContactDate.IsZero() {
		t.Errorf("new contact should have no last contact date, got %v", created.LastContactDate)
	}

	found, err := svc.Search(ctx, ownerID, "grace")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != created.ID {
		t.Errorf("search returned %d contacts", len(found))
	}

	occurred := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	interaction, err := svc.LogInteraction(ctx, ownerID, created.ID, contacts.LogInteractionRequest{
		Kind:       "call",
		Note:       "caught up",
		OccurredAt: occurred.Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("log interaction failed: %v", err)
	}
	if interaction.Kind != "call" {
		t.Errorf("kind = %s, want call", interaction.Kind)
	}

	after, err := svc.Get(ctx, ownerID, created.ID)
	if err != nil {
		t.Fatalf("get after interaction failed: %v", err)
	}
	if !after.LastContactDate.Equal(occurred) {
		t.Errorf("last contact = %v, want %v", after.LastContactDate, occurred)
	}

	if err := svc.Delete(ctx, ownerID, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, ownerID, created.ID); err != contacts.ErrContactNotFound {
		t.Errorf("get deleted err = %v, want ErrContactNotFound", err)
	}
}
