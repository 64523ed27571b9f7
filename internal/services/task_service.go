package services

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
	"taskboard/internal/repository/sqlite"
	"taskboard/internal/validation"
)

var (
	createTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_tasks_created_total",
			Help: "Total number of CreateTask operations",
		},
		[]string{"result"},
	)

	updateTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_tasks_updated_total",
			Help: "Total number of task update operations",
		},
		[]string{"result"},
	)

	statusChangeCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_status_changes_total",
			Help: "Total number of status changes by target status",
		},
		[]string{"status"},
	)

	createTaskDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taskboard_create_task_duration_seconds",
			Help:    "Duration of CreateTask operation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          sqlite.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo sqlite.Repository) TaskService {
	return &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidator(),
	}
}

// canTransition reports whether a task may move from one status to
// another. Any status may currently follow any other: toggling a task
// checkbox flips directly between TODO and COMPLETED. Kept as a single
// choke point so a stricter workflow stays a localized change.
func canTransition(from, to domain.Status) bool {
	_ = from
	return to.IsValid()
}

// CreateTask validates the input, applies defaults and persists a new
// task. Status defaults to TODO and priority to MEDIUM when unset.
func (t *taskServiceImpl) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	startTime := time.Now()
	defer func() {
		createTaskDuration.Observe(time.Since(startTime).Seconds())
	}()

	title, err := t.taskValidator.GetValidTitle(input.Title)
	if err != nil {
		createTaskCount.WithLabelValues("error").Inc()
		return nil, errors.NewValidationError("invalid task title", err)
	}

	status := input.Status
	if status == "" {
		status = domain.StatusTodo
	}
	if err := t.taskValidator.ValidateStatus(string(status)); err != nil {
		createTaskCount.WithLabelValues("error").Inc()
		return nil, errors.NewValidationError("invalid task status", err)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if err := t.taskValidator.ValidatePriority(string(priority)); err != nil {
		createTaskCount.WithLabelValues("error").Inc()
		return nil, errors.NewValidationError("invalid task priority", err)
	}

	if err := t.taskValidator.ValidateDueDate(input.DueDate); err != nil {
		createTaskCount.WithLabelValues("error").Inc()
		return nil, errors.NewValidationError("invalid due date", err)
	}

	if err := t.taskValidator.ValidateUserID(input.CreatedByID); err != nil {
		createTaskCount.WithLabelValues("error").Inc()
		return nil, errors.NewValidationError("invalid creator reference", err)
	}

	dbTask := &sqlite.Task{
		Title:       title,
		Description: input.Description,
		Status:      string(status),
		Priority:    string(priority),
		DueDate:     input.DueDate,
		CreatedByID: input.CreatedByID,
	}

	// The task row and its tag links commit together: a tag failure
	// must not leave a half-created task behind.
	var tags []domain.Tag
	if names := normalizeTagNames(input.Tags); len(names) > 0 {
		dbTags, err := t.repo.CreateTaskWithTags(ctx, dbTask, names)
		if err != nil {
			createTaskCount.WithLabelValues("error").Inc()
			return nil, err
		}
		tags = t.mapper.Tag.FromDatabaseSlice(dbTags)
	} else if err := t.repo.CreateTask(ctx, dbTask); err != nil {
		createTaskCount.WithLabelValues("error").Inc()
		return nil, err
	}

	createTaskCount.WithLabelValues("success").Inc()

	domainTask := t.mapper.Task.FromDatabase(*dbTask)
	domainTask.Tags = tags
	return &domainTask, nil
}

// GetTask retrieves a task by its ID, tags included
func (t *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewValidationError("invalid task ID", err)
	}

	dbTask, err := t.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	dbTags, err := t.repo.ListTaskTags(ctx, id)
	if err != nil {
		return nil, err
	}

	domainTask := t.mapper.Task.FromDatabase(*dbTask)
	domainTask.Tags = t.mapper.Tag.FromDatabaseSlice(dbTags)
	return &domainTask, nil
}

// UpdateStatus moves a task to a new status and refreshes its
// updated_at timestamp. Fails with a not found error when the id does
// not resolve to an existing task.
func (t *taskServiceImpl) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, errors.NewValidationError("invalid task ID", err)
	}

	if err := t.taskValidator.ValidateStatus(string(status)); err != nil {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, errors.NewValidationError("invalid task status", err)
	}

	dbTask, err := t.repo.GetTask(ctx, id)
	if err != nil {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, err
	}

	if !canTransition(domain.Status(dbTask.Status), status) {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, errors.NewValidationError("status transition not allowed", nil)
	}

	dbTask.Status = string(status)
	if err := t.repo.UpdateTask(ctx, dbTask); err != nil {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, err
	}

	updateTaskCount.WithLabelValues("success").Inc()
	statusChangeCount.WithLabelValues(string(status)).Inc()

	domainTask := t.mapper.Task.FromDatabase(*dbTask)
	return &domainTask, nil
}

// UpdateTask applies a partial patch of title, description, priority,
// due date and tags. The patch either applies in full or not at all.
func (t *taskServiceImpl) UpdateTask(ctx context.Context, id int64, patch UpdateTaskInput) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, errors.NewValidationError("invalid task ID", err)
	}

	// Validate the full patch before touching the repository
	if patch.Title != nil {
		if _, err := t.taskValidator.GetValidTitle(*patch.Title); err != nil {
			updateTaskCount.WithLabelValues("error").Inc()
			return nil, errors.NewValidationError("invalid task title", err)
		}
	}
	if patch.Priority != nil {
		if err := t.taskValidator.ValidatePriority(string(*patch.Priority)); err != nil {
			updateTaskCount.WithLabelValues("error").Inc()
			return nil, errors.NewValidationError("invalid task priority", err)
		}
	}
	if err := t.taskValidator.ValidateDueDate(patch.DueDate); err != nil {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, errors.NewValidationError("invalid due date", err)
	}

	dbTask, err := t.repo.GetTask(ctx, id)
	if err != nil {
		updateTaskCount.WithLabelValues("error").Inc()
		return nil, err
	}

	if patch.Title != nil {
		title, _ := t.taskValidator.GetValidTitle(*patch.Title)
		dbTask.Title = title
	}
	if patch.Description != nil {
		dbTask.Description = *patch.Description
	}
	if patch.Priority != nil {
		dbTask.Priority = string(*patch.Priority)
	}
	if patch.ClearDueDate {
		dbTask.DueDate = nil
	} else if patch.DueDate != nil {
		dbTask.DueDate = patch.DueDate
	}

	// Field and tag writes commit together; a supplied tag set
	// replaces the links, an empty one clears them.
	var tags []domain.Tag
	if patch.Tags != nil {
		dbTags, err := t.repo.UpdateTaskWithTags(ctx, dbTask, normalizeTagNames(*patch.Tags))
		if err != nil {
			updateTaskCount.WithLabelValues("error").Inc()
			return nil, err
		}
		tags = t.mapper.Tag.FromDatabaseSlice(dbTags)
	} else {
		if err := t.repo.UpdateTask(ctx, dbTask); err != nil {
			updateTaskCount.WithLabelValues("error").Inc()
			return nil, err
		}
		dbTags, err := t.repo.ListTaskTags(ctx, id)
		if err != nil {
			updateTaskCount.WithLabelValues("error").Inc()
			return nil, err
		}
		tags = t.mapper.Tag.FromDatabaseSlice(dbTags)
	}

	updateTaskCount.WithLabelValues("success").Inc()

	domainTask := t.mapper.Task.FromDatabase(*dbTask)
	domainTask.Tags = tags
	return &domainTask, nil
}

// normalizeTagNames trims, deduplicates and drops empty tag names,
// preserving first-seen order.
func normalizeTagNames(names []string) []string {
	var out []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
