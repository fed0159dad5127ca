package roadmap

import (
	"fmt"
	"strings"

	"github.com/Strob0t/SkillSprint/internal/domain"
)

// MaxNameLength bounds roadmap names; they appear in URLs and file names.
const MaxNameLength = 100

// ValidateCreate trims the request, removes blank and repeated goals, and
// checks that a name and at least one goal remain.
func ValidateCreate(req *CreateRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Validation("roadmap name is required")
	}
	if len(req.Name) > MaxNameLength {
		return domain.Validation(fmt.Sprintf("roadmap name must be at most %d characters", MaxNameLength))
	}
	if strings.ContainsAny(req.Name, `/\`) {
		return domain.Validation("roadmap name must not contain slashes")
	}
	// Clients drop dot segments from request paths.
	if req.Name == "." || req.Name == ".." {
		return domain.Validation("roadmap name must not be a dot segment")
	}

	seen := make(map[string]bool, len(req.Goals))
	goals := req.Goals[:0]
	for _, g := range req.Goals {
		g = strings.TrimSpace(g)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		goals = append(goals, g)
	}
	req.Goals = goals
	if len(req.Goals) == 0 {
		return domain.Validation("select at least one goal")
	}
	return nil
}

// ValidateStatus checks if a status value is valid.
func ValidateStatus(s Status) error {
	switch s {
	case StatusPending, StatusDone:
		return nil
	default:
		return fmt.Errorf("invalid roadmap status: %s", s)
	}
}
