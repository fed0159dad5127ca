// Package roadmap contains the domain models for named study roadmaps:
// per-goal sequences of weekly topics with their own completion status.
package roadmap

import "github.com/Strob0t/SkillSprint/internal/domain/progress"

// Status represents the completion state of a roadmap item.
type Status string

const (
	StatusPending Status = "Pending"
	StatusDone    Status = "Done"
)

// Item is one (goal, week, topic) row within a named roadmap.
type Item struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"roadmap_name"`
	Goal   string `json:"goal"`
	Week   int    `json:"week"`
	Topic  string `json:"topic"`
	Status Status `json:"status"`
}

// Done reports whether the item has been completed.
func (i Item) Done() bool { return i.Status == StatusDone }

// CreateRequest is the input for creating a roadmap under a name.
type CreateRequest struct {
	Name  string   `json:"name"`
	Goals []string `json:"goals"`
}

// View is a single roadmap as shown on the roadmap page, together with the
// names of all of the owner's roadmaps.
type View struct {
	Names    []string       `json:"names"`
	Active   string         `json:"active"`
	Items    []Item         `json:"items"`
	Progress progress.Ratio `json:"progress"`
}

// Ratio counts done items.
func Ratio(items []Item) progress.Ratio {
	r := progress.Ratio{Total: len(items)}
	for i := range items {
		if items[i].Done() {
			r.Done++
		}
	}
	return r
}
