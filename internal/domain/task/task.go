// Package task defines the Task domain entity: a dated to-do entry owned
// by one user and independent of any roadmap.
package task

import (
	"strings"
	"time"

	"github.com/Strob0t/SkillSprint/internal/domain"
)

// DateLayout is the calendar-day format tasks are stored with.
const DateLayout = time.DateOnly

// Task is a single to-do entry.
type Task struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Date   string `json:"date"`
	Text   string `json:"task"`
	Done   bool   `json:"done"`
}

// CreateRequest holds the fields needed to create a new task.
type CreateRequest struct {
	Date string `json:"date"`
	Text string `json:"task"`
}

// Validate trims the request and checks the date and text.
func (r *CreateRequest) Validate() error {
	r.Date = strings.TrimSpace(r.Date)
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return domain.Validation("task text is required")
	}
	if r.Date == "" {
		return domain.Validation("task date is required")
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return domain.Validation("task date must be YYYY-MM-DD")
	}
	return nil
}
