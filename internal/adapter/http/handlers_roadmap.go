package http

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Strob0t/SkillSprint/internal/domain"
	"github.com/Strob0t/SkillSprint/internal/domain/roadmap"
	"github.com/Strob0t/SkillSprint/internal/session"
)

const roadmapsPath = "/roadmaps"

// roadmapURL links to the roadmap page with name selected.
func roadmapURL(name string) string {
	if name == "" {
		return roadmapsPath
	}
	return roadmapsPath + "?name=" + url.QueryEscape(name)
}

type createRoadmapView struct {
	Goals    []string
	Name     string
	Selected map[string]bool
}

// RoadmapsPage handles GET /roadmaps?name=
func (h *Handlers) RoadmapsPage(w http.ResponseWriter, r *http.Request) {
	v, err := h.Roadmaps.View(r.Context(), currentUser(r).UserID, r.URL.Query().Get("name"))
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "roadmaps.html", page{Title: "Roadmaps", Data: v})
}

// CreateRoadmapPage handles GET /roadmap/create
func (h *Handlers) CreateRoadmapPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "roadmap_create.html", page{
		Title: "Create Roadmap",
		Data:  createRoadmapView{Goals: h.Roadmaps.Goals()},
	})
}

// CreateRoadmap handles POST /roadmap/create
func (h *Handlers) CreateRoadmap(w http.ResponseWriter, r *http.Request) {
	if !readForm(w, r) {
		return
	}
	req := roadmap.CreateRequest{
		Name:  r.PostForm.Get("name"),
		Goals: r.PostForm["goal"],
	}
	selected := make(map[string]bool, len(req.Goals))
	for _, g := range req.Goals {
		selected[g] = true
	}

	if _, err := h.Roadmaps.Create(r.Context(), currentUser(r).UserID, &req); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.render(w, r, http.StatusOK, "roadmap_create.html", page{
				Title: "Create Roadmap",
				Flash: danger(domain.Reason(err)),
				Data:  createRoadmapView{Goals: h.Roadmaps.Goals(), Name: req.Name, Selected: selected},
			})
			return
		}
		h.writeInternalError(w, r, err)
		return
	}
	h.redirectFlash(w, r, roadmapURL(req.Name), session.FlashSuccess, "Roadmap created successfully!")
}

// MarkRoadmapItemDone handles GET /roadmap/done/{id}. An optional ?name=
// keeps the same roadmap selected after the redirect.
func (h *Handlers) MarkRoadmapItemDone(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Roadmaps.MarkDone(r.Context(), currentUser(r).UserID, id); err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	redirect(w, r, roadmapURL(r.URL.Query().Get("name")))
}

// DeleteRoadmap handles GET /roadmap/delete/{name}
func (h *Handlers) DeleteRoadmap(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if err := h.Roadmaps.Delete(r.Context(), currentUser(r).UserID, name); err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	redirect(w, r, roadmapsPath)
}

// ExportRoadmap handles GET /roadmap/export/{name}
func (h *Handlers) ExportRoadmap(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")

	var buf bytes.Buffer
	if err := h.Roadmaps.Export(r.Context(), currentUser(r).UserID, name, &buf); err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": roadmap.ExportFileName(name),
	}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
