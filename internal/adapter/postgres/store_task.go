package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/SkillSprint/internal/domain/progress"
	"github.com/Strob0t/SkillSprint/internal/domain/task"
)

func scanTask(row scannable) (task.Task, error) {
	var (
		t    task.Task
		date time.Time
	)
	if err := row.Scan(&t.ID, &t.UserID, &date, &t.Text, &t.Done); err != nil {
		return t, err
	}
	t.Date = date.Format(task.DateLayout)
	return t, nil
}

func collectTasks(rows pgx.Rows) ([]task.Task, error) {
	defer rows.Close()
	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) CountTasks(ctx context.Context, userID int64) (progress.Ratio, error) {
	var r progress.Ratio
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE done)
		FROM tasks WHERE user_id = $1`, userID).Scan(&r.Total, &r.Done)
	if err != nil {
		return progress.Ratio{}, fmt.Errorf("count tasks: %w", err)
	}
	return r, nil
}

func (s *Store) ListTasks(ctx context.Context, userID int64) ([]task.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, task_date, task, done
		FROM tasks WHERE user_id = $1
		ORDER BY task_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return collectTasks(rows)
}

func (s *Store) ListRecentTasks(ctx context.Context, userID int64, limit int) ([]task.Task, error) {
	if limit <= 0 {
		return []task.Task{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, task_date, task, done
		FROM tasks WHERE user_id = $1
		ORDER BY id DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent tasks: %w", err)
	}
	return collectTasks(rows)
}

func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	date, err := time.Parse(task.DateLayout, t.Date)
	if err != nil {
		return fmt.Errorf("create task date %q: %w", t.Date, err)
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, task_date, task, done)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		t.UserID, date, t.Text, t.Done,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *Store) ToggleTask(ctx context.Context, userID, id int64) error {
	if _, err := s.pool.Exec(ctx,
		`UPDATE tasks SET done = NOT done WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("toggle task %d: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, userID, id int64) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}
