package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Strob0t/SkillSprint/internal/service"
	"github.com/Strob0t/SkillSprint/internal/session"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Auth     *service.AuthService
	Tasks    *service.TaskService
	Roadmaps *service.RoadmapService
	Progress *service.ProgressService
	Sessions *session.Manager
	Views    *Renderer
	DB       Pinger
}

const healthTimeout = 2 * time.Second

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
}

// Index handles GET /
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index.html", page{Title: "SkillSprint"})
}

// Dashboard handles GET /dashboard
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Progress.Dashboard(r.Context(), currentUser(r).UserID)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "dashboard.html", page{Title: "Dashboard", Data: d})
}

// ProgressPage handles GET /progress
func (h *Handlers) ProgressPage(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Progress.Progress(r.Context(), currentUser(r).UserID)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "progress.html", page{Title: "Progress", Data: rep})
}
