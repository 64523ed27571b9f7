package domain

import (
	"time"
)

// Status represents the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// ParseStatus parses a status literal into a Status.
// Returns false if the literal is not one of the known values.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// IsValid checks if the status is one of the enumerated values.
func (s Status) IsValid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// String returns the status literal.
func (s Status) String() string {
	return string(s)
}

// Priority represents the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority parses a priority literal into a Priority.
// Returns false if the literal is not one of the known values.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), true
	}
	return "", false
}

// IsValid checks if the priority is one of the enumerated values.
func (p Priority) IsValid() bool {
	_, ok := ParsePriority(string(p))
	return ok
}

// String returns the priority literal.
func (p Priority) String() string {
	return string(p)
}

// Task represents a unit of work in the domain model.
// This is a pure domain model without database-specific concerns.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	CreatedByID int64
	Tags        []Tag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return t.Title != "" && t.Status.IsValid() && t.Priority.IsValid()
}

// IsOverdue reports whether the task's due date has passed without the
// task being completed. Tasks without a due date are never overdue.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now) && t.Status != StatusCompleted
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}
