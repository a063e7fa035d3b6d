package todos

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/careloop/coach/internal/db"
	"github.com/careloop/coach/internal/db/migrations"
	"github.com/careloop/coach/internal/logging"
	"github.com/careloop/coach/internal/onboarding"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logging.Disable()
	migrations.QuietMode = true

	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewStore(store.DB())
}

func TestCreateFromExtraction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateFromExtraction(ctx, "user-1", []onboarding.ExtractedTodo{
		{Title: "Walk after dinner", Category: "exercise", TargetCount: 5},
		{Title: "", Category: "skipped"}, // untitled items are dropped
		{Title: "Log breakfast"},         // missing target defaults to 1
	})
	if err != nil {
		t.Fatalf("CreateFromExtraction: %v", err)
	}
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}

	items, err := s.ListForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("listed %d todos, want 2", len(items))
	}
	for _, item := range items {
		if item.Status != StatusPending {
			t.Errorf("new todo status = %s, want %s", item.Status, StatusPending)
		}
		if item.Title == "Log breakfast" {
			if item.TargetCount != 1 {
				t.Errorf("defaulted target = %d, want 1", item.TargetCount)
			}
			if item.Category != "other" {
				t.Errorf("defaulted category = %s, want other", item.Category)
			}
		}
	}
}

func TestCheckInLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateFromExtraction(ctx, "user-1", []onboarding.ExtractedTodo{
		{Title: "Walk", TargetCount: 2},
	}); err != nil {
		t.Fatalf("CreateFromExtraction: %v", err)
	}
	items, err := s.ListForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	id := items[0].ID

	// First check-in: below target, status becomes active.
	todo, err := s.CheckIn(ctx, id)
	if err != nil {
		t.Fatalf("first CheckIn: %v", err)
	}
	if todo.CurrentCount != 1 || todo.Status != StatusActive {
		t.Errorf("after first check-in: count=%d status=%s", todo.CurrentCount, todo.Status)
	}

	// Second check-in reaches the target.
	todo, err = s.CheckIn(ctx, id)
	if err != nil {
		t.Fatalf("second CheckIn: %v", err)
	}
	if todo.CurrentCount != 2 || todo.Status != StatusCompleted {
		t.Errorf("after second check-in: count=%d status=%s", todo.CurrentCount, todo.Status)
	}

	// A completed todo rejects further check-ins.
	if _, err := s.CheckIn(ctx, id); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("completed check-in err = %v, want sql.ErrNoRows", err)
	}
}

func TestCheckInUnknownTodo(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CheckIn(context.Background(), "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("unknown check-in err = %v, want sql.ErrNoRows", err)
	}
}

func TestActiveForUserExcludesCompleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateFromExtraction(ctx, "user-1", []onboarding.ExtractedTodo{
		{Title: "Done", TargetCount: 1},
		{Title: "Open", TargetCount: 3},
	}); err != nil {
		t.Fatalf("CreateFromExtraction: %v", err)
	}
	items, err := s.ListForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	for _, item := range items {
		if item.Title == "Done" {
			if _, err := s.CheckIn(ctx, item.ID); err != nil {
				t.Fatalf("CheckIn: %v", err)
			}
		}
	}

	active, err := s.ActiveForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ActiveForUser: %v", err)
	}
	if len(active) != 1 || active[0].Title != "Open" {
		t.Errorf("active = %+v, want just Open", active)
	}
}
