package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "skillsprint"

// Metrics holds all SkillSprint metric instruments.
type Metrics struct {
	Registrations     metric.Int64Counter
	Logins            metric.Int64Counter
	LoginFailures     metric.Int64Counter
	TasksCreated      metric.Int64Counter
	RoadmapsCreated   metric.Int64Counter
	RoadmapItemsDone  metric.Int64Counter
	RoadmapExports    metric.Int64Counter
	RateLimitRejected metric.Int64Counter
}

type counterDef struct {
	dst  *metric.Int64Counter
	name string
	desc string
}

// NewMetrics creates all metric instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}

	defs := []counterDef{
		{&m.Registrations, "skillsprint.users.registered", "Number of successful registrations"},
		{&m.Logins, "skillsprint.logins", "Number of successful logins"},
		{&m.LoginFailures, "skillsprint.logins.failed", "Number of rejected login attempts"},
		{&m.TasksCreated, "skillsprint.tasks.created", "Number of tasks created"},
		{&m.RoadmapsCreated, "skillsprint.roadmaps.created", "Number of roadmaps generated"},
		{&m.RoadmapItemsDone, "skillsprint.roadmap_items.done", "Number of roadmap items marked done"},
		{&m.RoadmapExports, "skillsprint.roadmaps.exported", "Number of CSV exports"},
		{&m.RateLimitRejected, "skillsprint.ratelimit.rejected", "Number of requests rejected by the rate limiter"},
	}
	for _, d := range defs {
		c, err := meter.Int64Counter(d.name, metric.WithDescription(d.desc))
		if err != nil {
			return nil, err
		}
		*d.dst = c
	}

	return m, nil
}
