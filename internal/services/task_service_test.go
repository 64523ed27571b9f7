package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/config"
	"taskboard/internal/domain"
	"taskboard/internal/errors"
	"taskboard/internal/repository/sqlite"
)

func setupRepo(t *testing.T) sqlite.Repository {
	t.Helper()

	repo, err := sqlite.New(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func setupTaskService(t *testing.T) (TaskService, sqlite.Repository, *sqlite.User) {
	t.Helper()

	repo := setupRepo(t)
	user := &sqlite.User{Name: "Ada Lovelace", Email: "ada@example.com"}
	require.NoError(t, repo.CreateUser(context.Background(), user))

	return NewTaskService(repo), repo, user
}

func TestTaskService_CreateTask(t *testing.T) {
	tests := []struct {
		name           string
		input          func(userID int64) CreateTaskInput
		errorAssertion func(t *testing.T, err error)
		check          func(t *testing.T, task *domain.Task)
	}{
		{
			name: "should apply defaults for status and priority",
			input: func(userID int64) CreateTaskInput {
				return CreateTaskInput{Title: "Write spec", CreatedByID: userID}
			},
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, domain.StatusTodo, task.Status)
				assert.Equal(t, domain.PriorityMedium, task.Priority)
				assert.Greater(t, task.ID, int64(0))
				assert.False(t, task.CreatedAt.IsZero())
				assert.False(t, task.UpdatedAt.IsZero())
			},
		},
		{
			name: "should keep supplied status and priority",
			input: func(userID int64) CreateTaskInput {
				return CreateTaskInput{
					Title:       "Urgent work",
					Status:      domain.StatusInProgress,
					Priority:    domain.PriorityHigh,
					CreatedByID: userID,
				}
			},
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, domain.StatusInProgress, task.Status)
				assert.Equal(t, domain.PriorityHigh, task.Priority)
			},
		},
		{
			name: "should resolve tags by name",
			input: func(userID int64) CreateTaskInput {
				return CreateTaskInput{Title: "Tagged", CreatedByID: userID, Tags: []string{"urgent", "docs"}}
			},
			check: func(t *testing.T, task *domain.Task) {
				require.Len(t, task.Tags, 2)
				assert.Equal(t, "urgent", task.Tags[0].Name)
				assert.Equal(t, "docs", task.Tags[1].Name)
			},
		},
		{
			name: "should return validation error for empty title",
			input: func(userID int64) CreateTaskInput {
				return CreateTaskInput{Title: "", CreatedByID: userID}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
		{
			name: "should return validation error for whitespace-only title",
			input: func(userID int64) CreateTaskInput {
				return CreateTaskInput{Title: "   ", CreatedByID: userID}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
		{
			name: "should return validation error for very long title",
			input: func(userID int64) CreateTaskInput {
				return CreateTaskInput{Title: strings.Repeat("x", 300), CreatedByID: userID}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "title")
			},
		},
		{
			name: "should return validation error for unknown status literal",
			input: func(userID int64) CreateTaskInput {
				return CreateTaskInput{Title: "Task", Status: "DONE", CreatedByID: userID}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "status")
			},
		},
		{
			name: "should return validation error for missing creator",
			input: func(userID int64) CreateTaskInput {
				return CreateTaskInput{Title: "Task"}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			service, _, user := setupTaskService(t)
			ctx := context.Background()

			// Act
			result, err := service.CreateTask(ctx, tt.input(user.ID))

			// Assert
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				tt.check(t, result)
			}
		})
	}
}

func TestTaskService_CreateTask_ValidationFailsBeforeRepository(t *testing.T) {
	// Arrange
	service, repo, user := setupTaskService(t)
	ctx := context.Background()

	// Act
	_, err := service.CreateTask(ctx, CreateTaskInput{Title: "", CreatedByID: user.ID})

	// Assert
	assert.Error(t, err)
	tasks, listErr := repo.ListTasks(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, tasks)
}

func TestTaskService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name           string
		newStatus      domain.Status
		errorAssertion func(t *testing.T, err error)
	}{
		{name: "should move task to in progress", newStatus: domain.StatusInProgress},
		{name: "should move task to completed", newStatus: domain.StatusCompleted},
		{
			name:      "should reject unknown status literal",
			newStatus: "ARCHIVED",
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			service, _, user := setupTaskService(t)
			ctx := context.Background()

			created, err := service.CreateTask(ctx, CreateTaskInput{Title: "Task", CreatedByID: user.ID})
			require.NoError(t, err)

			// Act
			result, err := service.UpdateStatus(ctx, created.ID, tt.newStatus)

			// Assert
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, tt.newStatus, result.Status)
			}
		})
	}
}

func TestTaskService_UpdateStatus_NotFound(t *testing.T) {
	// Arrange
	service, repo, _ := setupTaskService(t)
	ctx := context.Background()

	// Act
	result, err := service.UpdateStatus(ctx, 999, domain.StatusCompleted)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	var appErr *errors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.IsType(errors.ErrorTypeNotFound))

	// The collection is left unchanged
	tasks, listErr := repo.ListTasks(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, tasks)
}

func TestTaskService_UpdateStatus_NoTransitionRestriction(t *testing.T) {
	// Arrange
	service, _, user := setupTaskService(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, CreateTaskInput{Title: "Toggle me", CreatedByID: user.ID})
	require.NoError(t, err)

	// Act: complete, then reopen straight back to TODO
	completed, err := service.UpdateStatus(ctx, created.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)

	reopened, err := service.UpdateStatus(ctx, created.ID, domain.StatusTodo)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, reopened.Status)
}

func TestTaskService_UpdateStatus_RefreshesUpdatedAt(t *testing.T) {
	// Arrange
	service, _, user := setupTaskService(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, CreateTaskInput{Title: "Task", CreatedByID: user.ID})
	require.NoError(t, err)

	// Act
	updated, err := service.UpdateStatus(ctx, created.ID, domain.StatusInProgress)

	// Assert
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

// Two concurrent status updates on the same task race at the
// repository layer: there is no concurrency token, the accepted
// semantics are last-write-wins.
func TestTaskService_UpdateStatus_LastWriteWins(t *testing.T) {
	// Arrange
	service, _, user := setupTaskService(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, CreateTaskInput{Title: "Raced", CreatedByID: user.ID})
	require.NoError(t, err)

	// Act
	_, err = service.UpdateStatus(ctx, created.ID, domain.StatusInProgress)
	require.NoError(t, err)
	_, err = service.UpdateStatus(ctx, created.ID, domain.StatusCompleted)
	require.NoError(t, err)

	// Assert
	final, err := service.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, final.Status)
}

func TestTaskService_UpdateTask(t *testing.T) {
	titlePtr := func(s string) *string { return &s }
	priorityPtr := func(p domain.Priority) *domain.Priority { return &p }

	tests := []struct {
		name           string
		patch          UpdateTaskInput
		errorAssertion func(t *testing.T, err error)
		check          func(t *testing.T, task *domain.Task)
	}{
		{
			name:  "should update title only",
			patch: UpdateTaskInput{Title: titlePtr("Renamed")},
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, "Renamed", task.Title)
				assert.Equal(t, domain.PriorityMedium, task.Priority)
			},
		},
		{
			name:  "should update priority only",
			patch: UpdateTaskInput{Priority: priorityPtr(domain.PriorityHigh)},
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, "Original", task.Title)
				assert.Equal(t, domain.PriorityHigh, task.Priority)
			},
		},
		{
			name:  "should replace tags",
			patch: UpdateTaskInput{Tags: &[]string{"replaced"}},
			check: func(t *testing.T, task *domain.Task) {
				require.Len(t, task.Tags, 1)
				assert.Equal(t, "replaced", task.Tags[0].Name)
			},
		},
		{
			name:  "should reject empty title in patch",
			patch: UpdateTaskInput{Title: titlePtr("  ")},
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			service, _, user := setupTaskService(t)
			ctx := context.Background()

			created, err := service.CreateTask(ctx, CreateTaskInput{
				Title:       "Original",
				CreatedByID: user.ID,
				Tags:        []string{"initial"},
			})
			require.NoError(t, err)

			// Act
			result, err := service.UpdateTask(ctx, created.ID, tt.patch)

			// Assert
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				tt.check(t, result)
			}
		})
	}
}

func TestTaskService_UpdateTask_NotFound(t *testing.T) {
	// Arrange
	service, _, _ := setupTaskService(t)
	ctx := context.Background()
	title := "New title"

	// Act
	result, err := service.UpdateTask(ctx, 42, UpdateTaskInput{Title: &title})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTaskService_UpdateTask_InvalidPatchLeavesTaskUnchanged(t *testing.T) {
	// Arrange
	service, _, user := setupTaskService(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, CreateTaskInput{Title: "Keep me", CreatedByID: user.ID})
	require.NoError(t, err)

	bad := ""

	// Act
	_, err = service.UpdateTask(ctx, created.ID, UpdateTaskInput{Title: &bad})

	// Assert: the whole patch is rejected, nothing is applied
	assert.Error(t, err)
	current, getErr := service.GetTask(ctx, created.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "Keep me", current.Title)
}

// tagWriteFailingRepo wraps a real repository and fails every write
// that carries a tag set, standing in for a rolled-back transaction.
type tagWriteFailingRepo struct {
	sqlite.Repository
}

func (r *tagWriteFailingRepo) CreateTaskWithTags(ctx context.Context, task *sqlite.Task, tagNames []string) ([]*sqlite.Tag, error) {
	return nil, errors.NewDatabaseError("insert task tag", nil)
}

func (r *tagWriteFailingRepo) UpdateTaskWithTags(ctx context.Context, task *sqlite.Task, tagNames []string) ([]*sqlite.Tag, error) {
	return nil, errors.NewDatabaseError("insert task tag", nil)
}

func TestTaskService_CreateTask_FailedTagWriteLeavesNoTask(t *testing.T) {
	// Arrange
	repo := setupRepo(t)
	user := &sqlite.User{Name: "Ada Lovelace", Email: "ada@example.com"}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	service := NewTaskService(&tagWriteFailingRepo{Repository: repo})
	ctx := context.Background()

	// Act
	result, err := service.CreateTask(ctx, CreateTaskInput{
		Title:       "Tagged",
		CreatedByID: user.ID,
		Tags:        []string{"docs"},
	})

	// Assert: the whole creation fails, no task row survives
	assert.Error(t, err)
	assert.Nil(t, result)
	tasks, listErr := repo.ListTasks(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, tasks)
}

func TestTaskService_UpdateTask_FailedTagWriteLeavesFieldsUnchanged(t *testing.T) {
	// Arrange
	repo := setupRepo(t)
	user := &sqlite.User{Name: "Ada Lovelace", Email: "ada@example.com"}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	service := NewTaskService(&tagWriteFailingRepo{Repository: repo})
	ctx := context.Background()

	created, err := service.CreateTask(ctx, CreateTaskInput{Title: "Original", CreatedByID: user.ID})
	require.NoError(t, err)

	title := "Renamed"

	// Act
	_, err = service.UpdateTask(ctx, created.ID, UpdateTaskInput{
		Title: &title,
		Tags:  &[]string{"docs"},
	})

	// Assert: the field patch rolled back with the tag failure
	assert.Error(t, err)
	current, getErr := service.GetTask(ctx, created.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "Original", current.Title)
}

func TestTaskService_UpdateTask_EmptyTagSetClearsTags(t *testing.T) {
	// Arrange
	service, _, user := setupTaskService(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, CreateTaskInput{
		Title:       "Tagged",
		CreatedByID: user.ID,
		Tags:        []string{"docs"},
	})
	require.NoError(t, err)
	require.Len(t, created.Tags, 1)

	// Act
	result, err := service.UpdateTask(ctx, created.ID, UpdateTaskInput{Tags: &[]string{}})

	// Assert: the links are gone, not just hidden from the response
	require.NoError(t, err)
	assert.Empty(t, result.Tags)
	fetched, err := service.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Tags)
}

func TestTaskService_UpdateTask_ClearDueDate(t *testing.T) {
	// Arrange
	service, _, user := setupTaskService(t)
	ctx := context.Background()
	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	created, err := service.CreateTask(ctx, CreateTaskInput{
		Title:       "Has deadline",
		CreatedByID: user.ID,
		DueDate:     &due,
	})
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)

	// Act
	result, err := service.UpdateTask(ctx, created.ID, UpdateTaskInput{ClearDueDate: true})

	// Assert
	require.NoError(t, err)
	assert.Nil(t, result.DueDate)
	fetched, err := service.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.DueDate)
}

func TestTaskService_CreateTask_DueDateStored(t *testing.T) {
	// Arrange
	service, _, user := setupTaskService(t)
	ctx := context.Background()
	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	// Act
	created, err := service.CreateTask(ctx, CreateTaskInput{
		Title:       "Has deadline",
		CreatedByID: user.ID,
		DueDate:     &due,
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)
	assert.True(t, created.DueDate.Equal(due))

	fetched, err := service.GetTask(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.DueDate)
	assert.True(t, fetched.DueDate.Equal(due))
}
