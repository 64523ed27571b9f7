package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"taskboard/internal/auth"
	"taskboard/internal/domain"
	"taskboard/internal/services"
)

// handleHello is a no-op diagnostic echo
func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	if _, err := s.gate.Require(r.Context(), auth.OpHello); err != nil {
		writeError(w, err)
		return
	}

	text := r.URL.Query().Get("text")
	writeJSON(w, http.StatusOK, map[string]string{
		"greeting": fmt.Sprintf("Hello %s", text),
	})
}

// handleSecretMessage returns actor-specific content, protected
func (s *Server) handleSecretMessage(w http.ResponseWriter, r *http.Request) {
	actor, err := s.gate.Require(r.Context(), auth.OpSecretMessage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("you can now see this secret message, %s!", actor.Name),
	})
}

// handleListTasks returns all tasks, optionally filtered by status,
// assignee and free-text search. Filter literals ("all", status
// names) are parsed here; the engines only see typed filters.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	if _, err := s.gate.Require(r.Context(), auth.OpGetAllTasks); err != nil {
		writeError(w, err)
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tasks, err := s.reporting.FilterTasks(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskListResponse(tasks))
}

// handleRecentTasks returns the newest tasks for dashboard previews
func (s *Server) handleRecentTasks(w http.ResponseWriter, r *http.Request) {
	if _, err := s.gate.Require(r.Context(), auth.OpGetAllTasks); err != nil {
		writeError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, validationFailure("limit", raw, "must be an integer"))
			return
		}
		limit = parsed
	}

	tasks, err := s.reporting.GetRecentTasks(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskListResponse(tasks))
}

// handleCreateTask creates a task on behalf of the authenticated actor
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	actor, err := s.gate.Require(r.Context(), auth.OpCreateTask)
	if err != nil {
		writeError(w, err)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, validationFailure("body", "", "must be valid JSON"))
		return
	}
	defer r.Body.Close()

	input, err := req.toInput(actor)
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := s.tasks.CreateTask(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTaskResponse(*task))
}

// handleUpdateStatus moves a task to a new status
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := s.gate.Require(r.Context(), auth.OpUpdateTask); err != nil {
		writeError(w, err)
		return
	}

	id, err := taskIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, validationFailure("body", "", "must be valid JSON"))
		return
	}
	defer r.Body.Close()

	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		writeError(w, validationFailure("status", req.Status, "must be one of TODO, IN_PROGRESS, COMPLETED"))
		return
	}

	task, err := s.tasks.UpdateStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTaskResponse(*task))
}

// handleUpdateTask applies a partial patch to a task
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	if _, err := s.gate.Require(r.Context(), auth.OpUpdateTask); err != nil {
		writeError(w, err)
		return
	}

	id, err := taskIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, validationFailure("body", "", "must be valid JSON"))
		return
	}
	defer r.Body.Close()

	patch, err := req.toPatch()
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := s.tasks.UpdateTask(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTaskResponse(*task))
}

// handleListUsers returns all team members
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := s.gate.Require(r.Context(), auth.OpGetAllUsers); err != nil {
		writeError(w, err)
		return
	}

	users, err := s.reporting.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userListResponse(users))
}

// handleListProjects returns all projects
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	if _, err := s.gate.Require(r.Context(), auth.OpGetAllProject); err != nil {
		writeError(w, err)
		return
	}

	projects, err := s.reporting.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectListResponse(projects))
}

// handleStats returns dashboard counts
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if _, err := s.gate.Require(r.Context(), auth.OpGetAllTasks); err != nil {
		writeError(w, err)
		return
	}

	stats, err := s.reporting.GetDashboardStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleTeamStats returns per-user task totals
func (s *Server) handleTeamStats(w http.ResponseWriter, r *http.Request) {
	if _, err := s.gate.Require(r.Context(), auth.OpGetAllUsers); err != nil {
		writeError(w, err)
		return
	}

	team, err := s.reporting.GetTeamStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, teamListResponse(team))
}

// taskIDParam parses the {id} route parameter
func taskIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validationFailure("id", raw, "must be a positive integer")
	}
	return id, nil
}

// parseTaskFilter parses status/assignee/search query parameters.
// "all" and empty values mean pass-through.
func parseTaskFilter(r *http.Request) (domain.TaskFilter, error) {
	filter := domain.TaskFilter{
		Search: r.URL.Query().Get("search"),
	}

	if raw := r.URL.Query().Get("status"); raw != "" && raw != "all" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			return domain.TaskFilter{}, validationFailure("status", raw, "must be 'all' or one of TODO, IN_PROGRESS, COMPLETED")
		}
		filter.Status = &status
	}

	if raw := r.URL.Query().Get("assignee"); raw != "" && raw != "all" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return domain.TaskFilter{}, validationFailure("assignee", raw, "must be 'all' or a positive integer")
		}
		filter.AssigneeID = &id
	}

	return filter, nil
}

// createTaskRequest is the wire shape for task creation. The actor is
// the de-facto assignee: created_by_id always comes from the resolved
// identity, never from the request body.
type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date"`
	Tags        []string `json:"tags"`
}

func (req createTaskRequest) toInput(actor auth.Actor) (services.CreateTaskInput, error) {
	input := services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		CreatedByID: actor.ID,
		Tags:        req.Tags,
	}

	if req.Status != "" {
		status, ok := domain.ParseStatus(req.Status)
		if !ok {
			return services.CreateTaskInput{}, validationFailure("status", req.Status, "must be one of TODO, IN_PROGRESS, COMPLETED")
		}
		input.Status = status
	}

	if req.Priority != "" {
		priority, ok := domain.ParsePriority(req.Priority)
		if !ok {
			return services.CreateTaskInput{}, validationFailure("priority", req.Priority, "must be one of LOW, MEDIUM, HIGH")
		}
		input.Priority = priority
	}

	if req.DueDate != "" {
		due, err := parseDueDate(req.DueDate)
		if err != nil {
			return services.CreateTaskInput{}, err
		}
		input.DueDate = &due
	}

	return input, nil
}

// updateStatusRequest is the wire shape for status changes
type updateStatusRequest struct {
	Status string `json:"status"`
}

// updateTaskRequest is the wire shape for partial task updates
type updateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Priority    *string   `json:"priority"`
	DueDate     *string   `json:"due_date"`
	Tags        *[]string `json:"tags"`
}

func (req updateTaskRequest) toPatch() (services.UpdateTaskInput, error) {
	patch := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}

	if req.Priority != nil {
		priority, ok := domain.ParsePriority(*req.Priority)
		if !ok {
			return services.UpdateTaskInput{}, validationFailure("priority", *req.Priority, "must be one of LOW, MEDIUM, HIGH")
		}
		patch.Priority = &priority
	}

	if req.DueDate != nil {
		if *req.DueDate == "" {
			// An explicit empty due_date removes the deadline
			patch.ClearDueDate = true
		} else {
			due, err := parseDueDate(*req.DueDate)
			if err != nil {
				return services.UpdateTaskInput{}, err
			}
			patch.DueDate = &due
		}
	}

	return patch, nil
}

// parseDueDate accepts RFC3339 instants or plain calendar dates.
// Calendar dates convert to midnight UTC, nothing fancier.
func parseDueDate(raw string) (time.Time, error) {
	if due, err := time.Parse(time.RFC3339, raw); err == nil {
		return due, nil
	}
	if due, err := time.Parse("2006-01-02", raw); err == nil {
		return due, nil
	}
	return time.Time{}, validationFailure("due_date", raw, "must be an RFC3339 timestamp or YYYY-MM-DD date")
}

// taskResponse is the wire shape for a task
type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedByID int64      `json:"created_by_id"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newTaskResponse(task domain.Task) taskResponse {
	resp := taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		CreatedByID: task.CreatedByID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	for _, tag := range task.Tags {
		resp.Tags = append(resp.Tags, tag.Name)
	}
	return resp
}

func taskListResponse(tasks []domain.Task) []taskResponse {
	out := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = newTaskResponse(task)
	}
	return out
}

// userResponse is the wire shape for a team member
type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

func userListResponse(users []domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, user := range users {
		out[i] = userResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Image: user.Image,
		}
	}
	return out
}

// projectResponse is the wire shape for a project
type projectResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func projectListResponse(projects []domain.Project) []projectResponse {
	out := make([]projectResponse, len(projects))
	for i, project := range projects {
		out[i] = projectResponse{ID: project.ID, Name: project.Name}
	}
	return out
}

// teamMemberResponse is the wire shape for per-user task totals
type teamMemberResponse struct {
	User      userResponse `json:"user"`
	Total     int          `json:"total"`
	Completed int          `json:"completed"`
}

func teamListResponse(team []services.TeamMemberStats) []teamMemberResponse {
	out := make([]teamMemberResponse, len(team))
	for i, member := range team {
		out[i] = teamMemberResponse{
			User: userResponse{
				ID:    member.User.ID,
				Name:  member.User.Name,
				Email: member.User.Email,
				Image: member.User.Image,
			},
			Total:     member.Stats.Total,
			Completed: member.Stats.Completed,
		}
	}
	return out
}
