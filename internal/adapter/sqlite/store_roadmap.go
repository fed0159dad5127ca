package sqlite

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Strob0t/SkillSprint/internal/domain/progress"
	"github.com/Strob0t/SkillSprint/internal/domain/roadmap"
)

var itemColumns = []string{
	"id", "user_id", "roadmap_name", "COALESCE(goal, '') AS goal", "COALESCE(week, 0) AS week",
	"COALESCE(topic, '') AS topic", "COALESCE(status, 'Pending') AS status",
}

type itemRow struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"user_id"`
	Name   string `db:"roadmap_name"`
	Goal   string `db:"goal"`
	Week   int    `db:"week"`
	Topic  string `db:"topic"`
	Status string `db:"status"`
}

func (r *itemRow) toDomain() (roadmap.Item, error) {
	it := roadmap.Item{
		ID:     r.ID,
		UserID: r.UserID,
		Name:   r.Name,
		Goal:   r.Goal,
		Week:   r.Week,
		Topic:  r.Topic,
		Status: roadmap.Status(r.Status),
	}
	if err := roadmap.ValidateStatus(it.Status); err != nil {
		return roadmap.Item{}, fmt.Errorf("roadmap item %d: %w", r.ID, err)
	}
	return it, nil
}

// CountRoadmapItems counts the user's items in the named roadmap, or in all
// roadmaps when name is empty.
func (s *Store) CountRoadmapItems(ctx context.Context, userID int64, name string) (progress.Ratio, error) {
	where := squirrel.Eq{"user_id": userID}
	if name != "" {
		where["roadmap_name"] = name
	}
	query, args, err := s.sb.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN status = 'Done' THEN 1 ELSE 0 END), 0) AS done",
	).From("roadmap").
		Where(where).
		ToSql()
	if err != nil {
		return progress.Ratio{}, fmt.Errorf("build count roadmap items: %w", err)
	}

	var row ratioRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return progress.Ratio{}, fmt.Errorf("count roadmap items: %w", err)
	}
	return progress.Ratio{Done: row.Done, Total: row.Total}, nil
}

// ListRoadmapItems returns the named roadmap ordered by goal, then week.
func (s *Store) ListRoadmapItems(ctx context.Context, userID int64, name string) ([]roadmap.Item, error) {
	query, args, err := s.sb.Select(itemColumns...).
		From("roadmap").
		Where(squirrel.Eq{"user_id": userID, "roadmap_name": name}).
		OrderBy("goal", "week", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roadmap items: %w", err)
	}

	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roadmap items %q: %w", name, err)
	}
	items := make([]roadmap.Item, 0, len(rows))
	for i := range rows {
		it, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// ListRoadmapNames returns the user's distinct roadmap names alphabetically.
func (s *Store) ListRoadmapNames(ctx context.Context, userID int64) ([]string, error) {
	query, args, err := s.sb.Select("DISTINCT roadmap_name").
		From("roadmap").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("roadmap_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roadmap names: %w", err)
	}

	names := []string{}
	if err := s.db.SelectContext(ctx, &names, query, args...); err != nil {
		return nil, fmt.Errorf("list roadmap names: %w", err)
	}
	return names, nil
}

// ReplaceRoadmap deletes the user's roadmap with this name and inserts
// items in its place, atomically.
func (s *Store) ReplaceRoadmap(ctx context.Context, userID int64, name string, items []roadmap.Item) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace roadmap: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := exec(ctx, tx, s.sb.Delete("roadmap").
		Where(squirrel.Eq{"user_id": userID, "roadmap_name": name}), "clear roadmap"); err != nil {
		return err
	}

	if len(items) > 0 {
		ins := s.sb.Insert("roadmap").
			Columns("user_id", "roadmap_name", "goal", "week", "topic", "status")
		for i := range items {
			it := &items[i]
			ins = ins.Values(userID, name, it.Goal, it.Week, it.Topic, string(it.Status))
		}
		if _, err := exec(ctx, tx, ins, "insert roadmap items"); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace roadmap: %w", err)
	}
	return nil
}

// MarkRoadmapItemDone sets an owned item's status to Done. Repeating it is
// harmless.
func (s *Store) MarkRoadmapItemDone(ctx context.Context, userID, id int64) error {
	_, err := exec(ctx, s.db, s.sb.Update("roadmap").
		Set("status", string(roadmap.StatusDone)).
		Where(squirrel.Eq{"id": id, "user_id": userID}), "mark roadmap item done")
	return err
}

// DeleteRoadmap removes every item of the user's named roadmap.
func (s *Store) DeleteRoadmap(ctx context.Context, userID int64, name string) error {
	_, err := exec(ctx, s.db, s.sb.Delete("roadmap").
		Where(squirrel.Eq{"user_id": userID, "roadmap_name": name}), "delete roadmap")
	return err
}
