package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/Strob0t/SkillSprint/internal/adapter/postgres"
	"github.com/Strob0t/SkillSprint/internal/config"
	"github.com/Strob0t/SkillSprint/internal/domain"
	"github.com/Strob0t/SkillSprint/internal/domain/roadmap"
	"github.com/Strob0t/SkillSprint/internal/domain/task"
	"github.com/Strob0t/SkillSprint/internal/domain/user"
)

// setupStore creates a pgxpool connection, runs all migrations, and returns a
// ready-to-use Store. The pool is closed via t.Cleanup.
func setupStore(t *testing.T) *postgres.Store {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("requires DATABASE_URL")
	}

	ctx := context.Background()

	// Run goose migrations first (uses embedded SQL files).
	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := config.Defaults().Database
	cfg.DSN = dsn
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	store := postgres.NewStore(pool)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// createTestUser inserts a user with a random email so tests can share a database.
func createTestUser(t *testing.T, store *postgres.Store) *user.User {
	t.Helper()
	u := &user.User{
		Name:         "Test",
		Email:        "test-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: "hash",
	}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}

func TestStore_DuplicateEmail(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	u := createTestUser(t, store)
	err := store.CreateUser(ctx, &user.User{Name: "Again", Email: u.Email, PasswordHash: "x"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	got, err := store.GetUserByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("expected original user %d, got %d", u.ID, got.ID)
	}
}

func TestStore_GetUserNotFound(t *testing.T) {
	store := setupStore(t)
	_, err := store.GetUserByEmail(context.Background(), "missing-"+uuid.NewString()+"@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_TaskToggleAndOwnership(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store)
	other := createTestUser(t, store)

	tk := &task.Task{UserID: owner.ID, Date: "2024-06-01", Text: "practice"}
	if err := store.CreateTask(ctx, tk); err != nil {
		t.Fatalf("create task: %v", err)
	}

	// Foreign writes are silent no-ops.
	if err := store.ToggleTask(ctx, other.ID, tk.ID); err != nil {
		t.Fatalf("toggle as other: %v", err)
	}
	if err := store.DeleteTask(ctx, other.ID, tk.ID); err != nil {
		t.Fatalf("delete as other: %v", err)
	}

	for _, want := range []bool{true, false} {
		if err := store.ToggleTask(ctx, owner.ID, tk.ID); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		tasks, err := store.ListTasks(ctx, owner.ID)
		if err != nil {
			t.Fatalf("list tasks: %v", err)
		}
		if len(tasks) != 1 || tasks[0].Done != want {
			t.Fatalf("expected one task with done=%v, got %+v", want, tasks)
		}
		if tasks[0].Date != "2024-06-01" {
			t.Errorf("date = %q, want 2024-06-01", tasks[0].Date)
		}
	}
}

func TestStore_ReplaceRoadmap(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	u := createTestUser(t, store)

	items := roadmap.Build(u.ID, "Career", []string{"Web Development", "Data Analyst"})
	if err := store.ReplaceRoadmap(ctx, u.ID, "Career", items); err != nil {
		t.Fatalf("replace roadmap: %v", err)
	}
	if err := store.ReplaceRoadmap(ctx, u.ID, "Career", roadmap.Build(u.ID, "Career", []string{"Cyber Security"})); err != nil {
		t.Fatalf("replace roadmap again: %v", err)
	}

	got, err := store.ListRoadmapItems(ctx, u.ID, "Career")
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(got) != roadmap.WeeksPerGoal {
		t.Fatalf("expected %d items after replace, got %d", roadmap.WeeksPerGoal, len(got))
	}

	if err := store.MarkRoadmapItemDone(ctx, u.ID, got[0].ID); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	ratio, err := store.CountRoadmapItems(ctx, u.ID, "")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if ratio.Done != 1 || ratio.Total != 8 {
		t.Errorf("unexpected ratio %+v", ratio)
	}

	if err := store.DeleteRoadmap(ctx, u.ID, "Career"); err != nil {
		t.Fatalf("delete roadmap: %v", err)
	}
	names, err := store.ListRoadmapNames(ctx, u.ID)
	if err != nil {
		t.Fatalf("list names: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected no roadmaps, got %v", names)
	}
}
