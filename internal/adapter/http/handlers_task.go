package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/Strob0t/SkillSprint/internal/domain"
	"github.com/Strob0t/SkillSprint/internal/domain/task"
	"github.com/Strob0t/SkillSprint/internal/session"
)

const tasksPath = "/tasks"

type tasksView struct {
	Tasks []task.Task
	Today string
}

// TasksPage handles GET /tasks
func (h *Handlers) TasksPage(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.List(r.Context(), currentUser(r).UserID)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "tasks.html", page{
		Title: "Tasks",
		Data:  tasksView{Tasks: tasks, Today: time.Now().Format(task.DateLayout)},
	})
}

// CreateTask handles POST /tasks
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	if !readForm(w, r) {
		return
	}
	req := task.CreateRequest{
		Date: r.PostForm.Get("date"),
		Text: r.PostForm.Get("task"),
	}

	if _, err := h.Tasks.Create(r.Context(), currentUser(r).UserID, req); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.redirectFlash(w, r, tasksPath, session.FlashDanger, domain.Reason(err))
			return
		}
		h.writeInternalError(w, r, err)
		return
	}
	h.redirectFlash(w, r, tasksPath, session.FlashSuccess, "Task added!")
}

// ToggleTask handles GET /task-toggle/{id}
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Tasks.Toggle(r.Context(), currentUser(r).UserID, id); err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	redirect(w, r, tasksPath)
}

// DeleteTask handles GET /task-delete/{id}
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Tasks.Delete(r.Context(), currentUser(r).UserID, id); err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	redirect(w, r, tasksPath)
}
