package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	cfotel "github.com/Strob0t/SkillSprint/internal/adapter/otel"
	"github.com/Strob0t/SkillSprint/internal/domain/progress"
	"github.com/Strob0t/SkillSprint/internal/port/cache"
	"github.com/Strob0t/SkillSprint/internal/port/database"
)

// ProgressService builds the dashboard and progress summaries. The count
// part of a summary is cached per user until a write invalidates it or the
// TTL passes.
type ProgressService struct {
	store  database.Store
	cache  cache.Cache
	ttl    time.Duration
	recent int
}

// NewProgressService creates a progress service. A nil cache disables caching.
func NewProgressService(store database.Store, c cache.Cache, ttl time.Duration, recentTasks int) *ProgressService {
	if c == nil {
		c = cache.Nop{}
	}
	return &ProgressService{store: store, cache: c, ttl: ttl, recent: recentTasks}
}

// summary is the cached form of a user's counts.
type summary struct {
	Tasks        progress.Ratio `json:"tasks"`
	Roadmap      progress.Ratio `json:"roadmap"`
	RoadmapCount int            `json:"roadmap_count"`
}

func summaryKey(userID int64) string {
	return "summary:" + strconv.FormatInt(userID, 10)
}

// Dashboard returns task and roadmap totals, the number of roadmaps, and
// the most recently added tasks.
func (s *ProgressService) Dashboard(ctx context.Context, userID int64) (*progress.Dashboard, error) {
	sum, err := s.summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.ListRecentTasks(ctx, userID, s.recent)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &progress.Dashboard{
		Report:       progress.Report{Tasks: sum.Tasks, Roadmap: sum.Roadmap},
		RoadmapCount: sum.RoadmapCount,
		RecentTasks:  recent,
	}, nil
}

// Progress returns the task, roadmap and combined completion ratios.
func (s *ProgressService) Progress(ctx context.Context, userID int64) (*progress.Report, error) {
	sum, err := s.summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &progress.Report{Tasks: sum.Tasks, Roadmap: sum.Roadmap}, nil
}

// Invalidate drops the user's cached summary. Cache failures are logged,
// not returned: the entry expires on its own.
func (s *ProgressService) Invalidate(ctx context.Context, userID int64) {
	if err := s.cache.Delete(ctx, summaryKey(userID)); err != nil {
		slog.WarnContext(ctx, "summary cache delete failed", "user_id", userID, "error", err)
	}
}

func (s *ProgressService) summary(ctx context.Context, userID int64) (summary, error) {
	key := summaryKey(userID)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var sum summary
		if err := json.Unmarshal(data, &sum); err == nil {
			return sum, nil
		}
	}

	ctx, span := cfotel.StartSummarySpan(ctx, userID)
	defer span.End()

	var sum summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.store.CountTasks(gctx, userID)
		sum.Tasks = r
		return err
	})
	g.Go(func() error {
		r, err := s.store.CountRoadmapItems(gctx, userID, "")
		sum.Roadmap = r
		return err
	})
	g.Go(func() error {
		names, err := s.store.ListRoadmapNames(gctx, userID)
		sum.RoadmapCount = len(names)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return summary{}, fmt.Errorf("progress summary: %w", err)
	}

	if data, err := json.Marshal(sum); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			slog.WarnContext(ctx, "summary cache set failed", "user_id", userID, "error", err)
		}
	}
	return sum, nil
}
