// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/Strob0t/SkillSprint/internal/domain/progress"
	"github.com/Strob0t/SkillSprint/internal/domain/roadmap"
	"github.com/Strob0t/SkillSprint/internal/domain/task"
	"github.com/Strob0t/SkillSprint/internal/domain/user"
)

// Store is the port interface for database operations.
//
// Every method that touches a task or roadmap item takes the owner's user ID
// and filters on it. A write whose (id, user) pair matches no row is a
// silent no-op, never an error.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	UpdateUserPassword(ctx context.Context, email, passwordHash string) error

	// Tasks
	CountTasks(ctx context.Context, userID int64) (progress.Ratio, error)
	ListTasks(ctx context.Context, userID int64) ([]task.Task, error)
	ListRecentTasks(ctx context.Context, userID int64, limit int) ([]task.Task, error)
	CreateTask(ctx context.Context, t *task.Task) error
	ToggleTask(ctx context.Context, userID, id int64) error
	DeleteTask(ctx context.Context, userID, id int64) error

	// Roadmaps. An empty name in CountRoadmapItems counts across all roadmaps.
	CountRoadmapItems(ctx context.Context, userID int64, name string) (progress.Ratio, error)
	ListRoadmapItems(ctx context.Context, userID int64, name string) ([]roadmap.Item, error)
	ListRoadmapNames(ctx context.Context, userID int64) ([]string, error)
	ReplaceRoadmap(ctx context.Context, userID int64, name string, items []roadmap.Item) error
	MarkRoadmapItemDone(ctx context.Context, userID, id int64) error
	DeleteRoadmap(ctx context.Context, userID int64, name string) error

	Ping(ctx context.Context) error
	Close() error
}
