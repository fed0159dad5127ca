package service

import (
	"context"
	"fmt"
	"io"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	cfotel "github.com/Strob0t/SkillSprint/internal/adapter/otel"
	"github.com/Strob0t/SkillSprint/internal/domain/roadmap"
	"github.com/Strob0t/SkillSprint/internal/port/database"
)

// RoadmapService generates, lists and exports named roadmaps.
type RoadmapService struct {
	store    database.Store
	progress *ProgressService
	metrics  *cfotel.Metrics
}

// NewRoadmapService creates a roadmap service.
func NewRoadmapService(store database.Store, progress *ProgressService) *RoadmapService {
	return &RoadmapService{store: store, progress: progress}
}

// SetMetrics attaches metric instruments. Nil disables them.
func (s *RoadmapService) SetMetrics(m *cfotel.Metrics) { s.metrics = m }

// Goals returns the goal labels offered by the creation form.
func (s *RoadmapService) Goals() []string {
	return roadmap.Goals()
}

// View returns the named roadmap with the list of all the user's roadmap
// names. An empty or unknown name selects the first name alphabetically.
func (s *RoadmapService) View(ctx context.Context, userID int64, name string) (*roadmap.View, error) {
	names, err := s.store.ListRoadmapNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("roadmap view: %w", err)
	}

	v := &roadmap.View{Names: names, Items: []roadmap.Item{}}
	switch {
	case slices.Contains(names, name):
		v.Active = name
	case len(names) > 0:
		v.Active = names[0]
	default:
		return v, nil
	}

	items, err := s.store.ListRoadmapItems(ctx, userID, v.Active)
	if err != nil {
		return nil, fmt.Errorf("roadmap view: %w", err)
	}
	v.Items = items
	v.Progress = roadmap.Ratio(items)
	return v, nil
}

// Create builds eight weekly items per selected goal and stores them under
// req.Name, replacing any roadmap the user already has with that name.
func (s *RoadmapService) Create(ctx context.Context, userID int64, req *roadmap.CreateRequest) ([]roadmap.Item, error) {
	if err := roadmap.ValidateCreate(req); err != nil {
		return nil, err
	}

	ctx, span := cfotel.StartRoadmapSpan(ctx, "create", userID, req.Name)
	defer span.End()

	items := roadmap.Build(userID, req.Name, req.Goals)
	if err := s.store.ReplaceRoadmap(ctx, userID, req.Name, items); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create roadmap %q: %w", req.Name, err)
	}
	s.progress.Invalidate(ctx, userID)

	if s.metrics != nil {
		s.metrics.RoadmapsCreated.Add(ctx, 1, metric.WithAttributes(
			attribute.Int("goals", len(req.Goals)),
		))
	}
	return items, nil
}

// MarkDone completes an item the user owns. Repeating it is harmless.
func (s *RoadmapService) MarkDone(ctx context.Context, userID, id int64) error {
	if err := s.store.MarkRoadmapItemDone(ctx, userID, id); err != nil {
		return fmt.Errorf("mark roadmap item done: %w", err)
	}
	s.progress.Invalidate(ctx, userID)

	if s.metrics != nil {
		s.metrics.RoadmapItemsDone.Add(ctx, 1)
	}
	return nil
}

// Delete removes all of the user's items under name.
func (s *RoadmapService) Delete(ctx context.Context, userID int64, name string) error {
	if err := s.store.DeleteRoadmap(ctx, userID, name); err != nil {
		return fmt.Errorf("delete roadmap %q: %w", name, err)
	}
	s.progress.Invalidate(ctx, userID)
	return nil
}

// Export writes the named roadmap as CSV, ordered by goal and week. A
// roadmap with no items yields just the header row.
func (s *RoadmapService) Export(ctx context.Context, userID int64, name string, w io.Writer) error {
	ctx, span := cfotel.StartRoadmapSpan(ctx, "export", userID, name)
	defer span.End()

	items, err := s.store.ListRoadmapItems(ctx, userID, name)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("export roadmap %q: %w", name, err)
	}
	if err := roadmap.WriteCSV(w, items); err != nil {
		return fmt.Errorf("export roadmap %q: %w", name, err)
	}

	if s.metrics != nil {
		s.metrics.RoadmapExports.Add(ctx, 1)
	}
	return nil
}
