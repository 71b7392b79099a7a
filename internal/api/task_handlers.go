// ABOUTME: Task CRUD handlers, all scoped to the authenticated owner
// ABOUTME: Builds store filters from the optional search/completed/date query parameters

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/relaylabs/taskdock/internal/auth"
	"github.com/relaylabs/taskdock/internal/store"
)

// CreateTaskRequest is the JSON request body for POST /api/tasks.
type CreateTaskRequest struct {
	Title   string `json:"title"`
	DueDate string `json:"dueDate,omitempty"`
}

// UpdateTaskRequest is the JSON request body for PUT /api/tasks/{id}.
// Completed is a pointer so an absent field is rejected rather than
// silently treated as false.
type UpdateTaskRequest struct {
	Completed *bool `json:"completed"`
}

// TaskResponse is the JSON shape of a task. The owner id is implied by the
// bearer token and never serialized.
type TaskResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	DueDate   string `json:"dueDate,omitempty"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// MessageResponse is the JSON response for operations with no payload.
type MessageResponse struct {
	Message string `json:"message"`
}

func taskToResponse(t *store.Task) TaskResponse {
	resp := TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.DueDate != nil {
		resp.DueDate = t.DueDate.UTC().Format(time.RFC3339)
	}
	return resp
}

// parseDueDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date.
func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// handleListTasks handles GET /api/tasks requests.
// Supports optional ?search=, ?completed=, and ?date= query parameters.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	filter := store.TaskFilter{
		Search: r.URL.Query().Get("search"),
	}

	if v := r.URL.Query().Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			s.sendJSONError(w, http.StatusBadRequest, "completed must be true or false")
			return
		}
		filter.Completed = &completed
	}

	if v := r.URL.Query().Get("date"); v != "" {
		// Calendar day in the server's local time zone
		day, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			s.sendJSONError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		filter.DueOn = &day
	}

	tasks, err := s.store.ListTasks(r.Context(), identity.UserID, filter)
	if err != nil {
		s.logger.Error("listing tasks", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		response = append(response, taskToResponse(t))
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleCreateTask handles POST /api/tasks requests.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		s.sendJSONError(w, http.StatusBadRequest, "title is required")
		return
	}

	task := &store.Task{
		UserID: identity.UserID,
		Title:  req.Title,
	}

	if req.DueDate != "" {
		due, err := parseDueDate(req.DueDate)
		if err != nil {
			s.sendJSONError(w, http.StatusBadRequest, "dueDate must be RFC 3339 or YYYY-MM-DD")
			return
		}
		// Past due dates are allowed; overdue is a client presentation concern
		task.DueDate = &due
	}

	if err := s.store.CreateTask(r.Context(), task); err != nil {
		s.logger.Error("creating task", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusCreated, taskToResponse(task))
}

// handleUpdateTask handles PUT /api/tasks/{id} requests.
// Only the completion flag is mutable. A missing task and someone else's
// task are both 404.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	taskID := r.PathValue("id")

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Completed == nil {
		s.sendJSONError(w, http.StatusBadRequest, "completed is required")
		return
	}

	task, err := s.store.SetTaskCompleted(r.Context(), taskID, identity.UserID, *req.Completed)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "task not found")
			return
		}
		s.logger.Error("updating task", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, taskToResponse(task))
}

// handleDeleteTask handles DELETE /api/tasks/{id} requests.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	taskID := r.PathValue("id")

	if err := s.store.DeleteTask(r.Context(), taskID, identity.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "task not found")
			return
		}
		s.logger.Error("deleting task", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, MessageResponse{Message: "Task deleted"})
}
