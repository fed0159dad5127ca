package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/SkillSprint/internal/domain/progress"
	"github.com/Strob0t/SkillSprint/internal/domain/roadmap"
)

func (s *Store) CountRoadmapItems(ctx context.Context, userID int64, name string) (progress.Ratio, error) {
	var r progress.Ratio
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'Done')
		FROM roadmap
		WHERE user_id = $1 AND ($2 = '' OR roadmap_name = $2)`, userID, name).Scan(&r.Total, &r.Done)
	if err != nil {
		return progress.Ratio{}, fmt.Errorf("count roadmap items: %w", err)
	}
	return r, nil
}

func (s *Store) ListRoadmapItems(ctx context.Context, userID int64, name string) ([]roadmap.Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, roadmap_name, goal, week, topic, status
		FROM roadmap WHERE user_id = $1 AND roadmap_name = $2
		ORDER BY goal, week, id`, userID, name)
	if err != nil {
		return nil, fmt.Errorf("list roadmap items %q: %w", name, err)
	}
	defer rows.Close()

	items := []roadmap.Item{}
	for rows.Next() {
		var it roadmap.Item
		if err := rows.Scan(&it.ID, &it.UserID, &it.Name, &it.Goal, &it.Week, &it.Topic, &it.Status); err != nil {
			return nil, fmt.Errorf("scan roadmap item: %w", err)
		}
		if err := roadmap.ValidateStatus(it.Status); err != nil {
			return nil, fmt.Errorf("roadmap item %d: %w", it.ID, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) ListRoadmapNames(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT roadmap_name FROM roadmap
		WHERE user_id = $1 ORDER BY roadmap_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list roadmap names: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan roadmap names: %w", err)
	}
	return names, nil
}

// ReplaceRoadmap swaps the named roadmap's rows in one transaction, using
// COPY for the batch insert.
func (s *Store) ReplaceRoadmap(ctx context.Context, userID int64, name string, items []roadmap.Item) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace roadmap: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM roadmap WHERE user_id = $1 AND roadmap_name = $2`, userID, name); err != nil {
		return fmt.Errorf("clear roadmap %q: %w", name, err)
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"roadmap"},
		[]string{"user_id", "roadmap_name", "goal", "week", "topic", "status"},
		pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
			it := &items[i]
			return []any{userID, name, it.Goal, int32(it.Week), it.Topic, string(it.Status)}, nil
		}),
	); err != nil {
		return fmt.Errorf("insert roadmap items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace roadmap: %w", err)
	}
	return nil
}

func (s *Store) MarkRoadmapItemDone(ctx context.Context, userID, id int64) error {
	if _, err := s.pool.Exec(ctx,
		`UPDATE roadmap SET status = 'Done' WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("mark roadmap item %d done: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteRoadmap(ctx context.Context, userID int64, name string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM roadmap WHERE user_id = $1 AND roadmap_name = $2`, userID, name); err != nil {
		return fmt.Errorf("delete roadmap %q: %w", name, err)
	}
	return nil
}
