package services

import (
	"strings"
	"time"

	"taskboard/internal/domain"
)

// DefaultRecentTasksLimit is the default limit for recent tasks in dashboard previews
const DefaultRecentTasksLimit = 6

// The query engine is pure derivation over task snapshots: no
// repository access, no mutation, no dependency on wall-clock time
// except where a caller passes "now" in explicitly.

// FilterTasks returns the subsequence of tasks matching the filter,
// preserving the input order. All predicates are ANDed; an empty
// filter returns the input unchanged.
func FilterTasks(tasks []domain.Task, filter domain.TaskFilter) []domain.Task {
	if filter.IsEmpty() {
		return tasks
	}

	search := strings.ToLower(filter.Search)

	filtered := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.AssigneeID != nil && task.CreatedByID != *filter.AssigneeID {
			continue
		}
		if search != "" && !matchesSearch(task, search) {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered
}

// matchesSearch checks a lowercased search term against title and description
func matchesSearch(task domain.Task, search string) bool {
	return strings.Contains(strings.ToLower(task.Title), search) ||
		strings.Contains(strings.ToLower(task.Description), search)
}

// CountByStatus computes per-status counts over a task snapshot.
// Total equals the number of tasks, which equals the sum of the three
// per-status counts as long as every task carries a valid status.
func CountByStatus(tasks []domain.Task) StatusCounts {
	counts := StatusCounts{Total: len(tasks)}
	for _, task := range tasks {
		switch task.Status {
		case domain.StatusTodo:
			counts.Todo++
		case domain.StatusInProgress:
			counts.InProgress++
		case domain.StatusCompleted:
			counts.Completed++
		}
	}
	return counts
}

// UserTasksStats computes one user's totals over a task snapshot.
// Completed is always a subset of Total.
func UserTasksStats(tasks []domain.Task, userID int64) UserTaskStats {
	stats := UserTaskStats{}
	for _, task := range tasks {
		if task.CreatedByID != userID {
			continue
		}
		stats.Total++
		if task.Status == domain.StatusCompleted {
			stats.Completed++
		}
	}
	return stats
}

// RecentTasks returns the first n tasks in snapshot order, which the
// repository guarantees is most recently created first. n clamps to
// the collection length.
func RecentTasks(tasks []domain.Task, n int) []domain.Task {
	if n < 0 {
		n = 0
	}
	if n > len(tasks) {
		n = len(tasks)
	}
	return tasks[:n]
}

// OverdueTasks returns tasks whose due date has passed without
// completion, relative to the supplied instant.
func OverdueTasks(tasks []domain.Task, now time.Time) []domain.Task {
	var overdue []domain.Task
	for _, task := range tasks {
		if task.IsOverdue(now) {
			overdue = append(overdue, task)
		}
	}
	return overdue
}
