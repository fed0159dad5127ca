// Package progress holds completion ratios and the summaries built from them.
package progress

import "github.com/Strob0t/SkillSprint/internal/domain/task"

// Ratio is a done/total pair for one category of work.
type Ratio struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Percent returns floor(100*done/total), or 0 when total is 0.
func (r Ratio) Percent() int {
	if r.Total <= 0 {
		return 0
	}
	return r.Done * 100 / r.Total
}

// Add combines two ratios.
func (r Ratio) Add(o Ratio) Ratio {
	return Ratio{Done: r.Done + o.Done, Total: r.Total + o.Total}
}

// Report is the progress page summary.
type Report struct {
	Tasks   Ratio `json:"tasks"`
	Roadmap Ratio `json:"roadmap"`
}

// Overall combines task and roadmap counts.
func (r Report) Overall() Ratio {
	return r.Tasks.Add(r.Roadmap)
}

// Dashboard is the landing summary shown after login.
type Dashboard struct {
	Report
	RoadmapCount int         `json:"roadmap_count"`
	RecentTasks  []task.Task `json:"recent_tasks"`
}
