package services

import (
	"context"
	"time"

	"taskboard/internal/domain"
)

// CreateTaskInput carries the fields for creating a task.
// Status and Priority are optional; unset values default to TODO and
// MEDIUM. Tags are referenced by name and created on demand.
type CreateTaskInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      domain.Status   `json:"status,omitempty"`
	Priority    domain.Priority `json:"priority,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	CreatedByID int64           `json:"created_by_id"`
	Tags        []string        `json:"tags,omitempty"`
}

// UpdateTaskInput carries a partial patch of task fields.
// Nil fields are left unchanged. A non-nil Tags slice replaces the
// tag set; an empty one clears it. ClearDueDate removes an existing
// due date and wins over DueDate when both are set.
type UpdateTaskInput struct {
	Title        *string          `json:"title,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Priority     *domain.Priority `json:"priority,omitempty"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
	ClearDueDate bool             `json:"clear_due_date,omitempty"`
	Tags         *[]string        `json:"tags,omitempty"`
}

// StatusCounts represents per-status task counts for dashboard cards.
// Total always equals the sum of the three per-status counts.
type StatusCounts struct {
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Total      int `json:"total"`
}

// UserTaskStats represents one user's task totals for the team view.
type UserTaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// TeamMemberStats pairs a user with their task totals.
type TeamMemberStats struct {
	User  domain.User   `json:"user"`
	Stats UserTaskStats `json:"stats"`
}

// DashboardStats represents the aggregate numbers shown on the
// dashboard: per-status counts plus the derived overdue count.
type DashboardStats struct {
	Counts  StatusCounts `json:"counts"`
	Overdue int          `json:"overdue"`
}

// TaskService owns the task lifecycle: all creation and mutation
// rules live here. Consumers never write task fields directly.
type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, patch UpdateTaskInput) (*domain.Task, error)
}

// ReportingService serves reads: repository snapshots passed through
// the query engine for filtering and aggregation.
type ReportingService interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	FilterTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	GetTeamStats(ctx context.Context) ([]TeamMemberStats, error)
	GetRecentTasks(ctx context.Context, limit int) ([]domain.Task, error)
}
