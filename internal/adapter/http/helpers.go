package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/SkillSprint/internal/middleware"
	"github.com/Strob0t/SkillSprint/internal/session"
)

const maxFormSize = 64 << 10 // 64 KB

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

// readForm parses a size-limited form body. On failure it writes a 400.
func readForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	return true
}

// pathParam returns the decoded chi URL parameter. chi matches against
// RawPath when it is set, which leaves the value escaped.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

// parseID reads a numeric path parameter. On failure it writes a 404.
func parseID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id < 1 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

// currentUser returns the session attached by middleware.Session. Only
// call it behind middleware.RequireLogin.
func currentUser(r *http.Request) session.Session {
	s, _ := middleware.SessionFromContext(r.Context())
	return s
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

// render writes the named page. A nil p.Flash is filled from the pending
// flash cookie.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	if s, ok := middleware.SessionFromContext(r.Context()); ok {
		p.User = &s
	}
	if p.Flash == nil {
		if f, ok := h.Sessions.PopFlash(w, r); ok {
			p.Flash = &f
		}
	}

	var buf bytes.Buffer
	if err := h.Views.Execute(&buf, name, p); err != nil {
		slog.ErrorContext(r.Context(), "render template failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// redirect sends a 303 so the browser follows up with a GET.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// redirectFlash queues a flash message and redirects.
func (h *Handlers) redirectFlash(w http.ResponseWriter, r *http.Request, target, kind, msg string) {
	if err := h.Sessions.SetFlash(w, session.Flash{Kind: kind, Message: msg}); err != nil {
		slog.WarnContext(r.Context(), "set flash failed", "error", err)
	}
	redirect(w, r, target)
}

// writeInternalError logs the actual error server-side and renders a
// generic error page.
func (h *Handlers) writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	h.render(w, r, http.StatusInternalServerError, "error.html", page{Title: "Something went wrong"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func danger(msg string) *session.Flash {
	return &session.Flash{Kind: session.FlashDanger, Message: msg}
}
