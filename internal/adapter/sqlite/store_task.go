package sqlite

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Strob0t/SkillSprint/internal/domain/progress"
	"github.com/Strob0t/SkillSprint/internal/domain/task"
)

// done is nullable in database files from earlier releases.
var taskColumns = []string{"id", "user_id", "task_date", "task", "COALESCE(done, 0) AS done"}

type taskRow struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"user_id"`
	Date   string `db:"task_date"`
	Text   string `db:"task"`
	Done   bool   `db:"done"`
}

func (r *taskRow) toDomain() task.Task {
	return task.Task{ID: r.ID, UserID: r.UserID, Date: r.Date, Text: r.Text, Done: r.Done}
}

type ratioRow struct {
	Total int `db:"total"`
	Done  int `db:"done"`
}

// CountTasks returns the user's total and completed task counts.
func (s *Store) CountTasks(ctx context.Context, userID int64) (progress.Ratio, error) {
	query, args, err := s.sb.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN done = 1 THEN 1 ELSE 0 END), 0) AS done",
	).From("tasks").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return progress.Ratio{}, fmt.Errorf("build count tasks: %w", err)
	}

	var row ratioRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return progress.Ratio{}, fmt.Errorf("count tasks: %w", err)
	}
	return progress.Ratio{Done: row.Done, Total: row.Total}, nil
}

// ListTasks returns the user's tasks, newest date first.
func (s *Store) ListTasks(ctx context.Context, userID int64) ([]task.Task, error) {
	return s.listTasks(ctx, s.sb.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("task_date DESC", "id DESC"))
}

// ListRecentTasks returns up to limit of the user's most recently added tasks.
func (s *Store) ListRecentTasks(ctx context.Context, userID int64, limit int) ([]task.Task, error) {
	if limit <= 0 {
		return []task.Task{}, nil
	}
	return s.listTasks(ctx, s.sb.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id DESC").
		Limit(uint64(limit)))
}

func (s *Store) listTasks(ctx context.Context, b squirrel.SelectBuilder) ([]task.Task, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tasks: %w", err)
	}

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]task.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, rows[i].toDomain())
	}
	return tasks, nil
}

// CreateTask inserts t and fills its ID.
func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	query, args, err := s.sb.Insert("tasks").
		Columns("user_id", "task_date", "task", "done").
		Values(t.UserID, t.Date, t.Text, t.Done).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create task: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create task id: %w", err)
	}
	t.ID = id
	return nil
}

// ToggleTask flips the done flag in a single statement. A task the user
// does not own is left untouched.
func (s *Store) ToggleTask(ctx context.Context, userID, id int64) error {
	_, err := exec(ctx, s.db, s.sb.Update("tasks").
		Set("done", squirrel.Expr("CASE WHEN done = 1 THEN 0 ELSE 1 END")).
		Where(squirrel.Eq{"id": id, "user_id": userID}), "toggle task")
	return err
}

// DeleteTask removes a task the user owns.
func (s *Store) DeleteTask(ctx context.Context, userID, id int64) error {
	_, err := exec(ctx, s.db, s.sb.Delete("tasks").
		Where(squirrel.Eq{"id": id, "user_id": userID}), "delete task")
	return err
}
