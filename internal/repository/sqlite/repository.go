package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/errors"
	"taskboard/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for database operations
type Repository interface {
	// Task operations
	CreateTask(ctx context.Context, task *Task) error
	CreateTaskWithTags(ctx context.Context, task *Task, tagNames []string) ([]*Tag, error)
	GetTask(ctx context.Context, id int64) (*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	UpdateTaskWithTags(ctx context.Context, task *Task, tagNames []string) ([]*Tag, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	ListTaskTags(ctx context.Context, taskID int64) ([]*Tag, error)

	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	ListProjects(ctx context.Context) ([]*Project, error)

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
	writeTimeout time.Duration
}

// New creates a new SQLite repository instance
func New(cfg config.DatabaseConfig) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// An in-memory database exists per connection; keep the pool at
	// one so every caller sees the same schema.
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{
		db:           db,
		queryTimeout: cfg.QueryTimeout,
		writeTimeout: cfg.WriteTimeout,
	}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// readCtx bounds a read operation by the configured query timeout
func (r *SQLiteRepository) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// writeCtx bounds a write operation by the configured write timeout
func (r *SQLiteRepository) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.writeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.writeTimeout)
}

// CreateTask creates a new task. ID, CreatedAt and UpdatedAt are
// populated on the passed task.
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	return insertTask(ctx, r.db, task)
}

// CreateTaskWithTags creates a task and attaches its tag set in a
// single transaction: a tag failure rolls the task row back too.
func (r *SQLiteRepository) CreateTaskWithTags(ctx context.Context, task *Task, tagNames []string) ([]*Tag, error) {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, HandleDatabaseError("begin transaction", err)
	}

	if err := insertTask(ctx, tx, task); err != nil {
		tx.Rollback()
		return nil, err
	}

	tags, err := replaceTaskTags(ctx, tx, task.ID, tagNames)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, HandleDatabaseError("commit task", err)
	}
	return tags, nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `
	SELECT id, title, description, status, priority, due_date, created_by_id, created_at, updated_at
	FROM tasks
	WHERE id = ?`

	return QuerySingle(ctx, r.db, query, ScanTask, "task", fmt.Sprintf("%d", id), id)
}

// UpdateTask updates an existing task's mutable fields and refreshes
// its updated_at timestamp. Fails with a not found error if the id
// does not resolve to an existing task.
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *Task) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	return updateTaskRow(ctx, r.db, task)
}

// UpdateTaskWithTags updates a task's fields and replaces its tag set
// in a single transaction. An empty tagNames slice clears the links.
// A tag failure rolls the field update back too.
func (r *SQLiteRepository) UpdateTaskWithTags(ctx context.Context, task *Task, tagNames []string) ([]*Tag, error) {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, HandleDatabaseError("begin transaction", err)
	}

	if err := updateTaskRow(ctx, tx, task); err != nil {
		tx.Rollback()
		return nil, err
	}

	tags, err := replaceTaskTags(ctx, tx, task.ID, tagNames)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, HandleDatabaseError("commit task", err)
	}
	return tags, nil
}

// ListTasks retrieves all tasks, most recently created first
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `
	SELECT id, title, description, status, priority, due_date, created_by_id, created_at, updated_at
	FROM tasks
	ORDER BY created_at DESC, id DESC`

	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks")
}

// ListTaskTags retrieves the tags attached to a task
func (r *SQLiteRepository) ListTaskTags(ctx context.Context, taskID int64) ([]*Tag, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `
	SELECT t.id, t.name
	FROM tags t
	JOIN task_tags tt ON tt.tag_id = t.id
	WHERE tt.task_id = ?
	ORDER BY t.name ASC`

	return QueryMultiple(ctx, r.db, query, ScanTags, "tags", taskID)
}

// CreateUser creates a new user
func (r *SQLiteRepository) CreateUser(ctx context.Context, user *User) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	INSERT INTO users (name, email, image)
	VALUES (?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query, user.Name, user.Email, user.Image)
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetUser retrieves a user by ID
func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `
	SELECT id, name, email, image
	FROM users
	WHERE id = ?`

	return QuerySingle(ctx, r.db, query, ScanUser, "user", fmt.Sprintf("%d", id), id)
}

// ListUsers retrieves all users
func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]*User, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `
	SELECT id, name, email, image
	FROM users
	ORDER BY id ASC`

	return QueryMultiple(ctx, r.db, query, ScanUsers, "users")
}

// CreateProject creates a new project
func (r *SQLiteRepository) CreateProject(ctx context.Context, project *Project) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `INSERT INTO projects (name) VALUES (?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query, project.Name)
	if err != nil {
		return err
	}

	project.ID = id
	return nil
}

// ListProjects retrieves all projects
func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]*Project, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `
	SELECT id, name
	FROM projects
	ORDER BY id ASC`

	return QueryMultiple(ctx, r.db, query, ScanProjects, "projects")
}

// insertTask writes a new task row. ID, CreatedAt and UpdatedAt are
// populated on the passed task.
func insertTask(ctx context.Context, q DBTX, task *Task) error {
	now := time.Now().UTC().Truncate(time.Second)
	task.CreatedAt = now
	task.UpdatedAt = now

	query := `
	INSERT INTO tasks (title, description, status, priority, due_date, created_by_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, q, query,
		task.Title, task.Description, task.Status, task.Priority,
		FormatTimePtrForDB(task.DueDate), task.CreatedByID,
		FormatTimeForDB(task.CreatedAt), FormatTimeForDB(task.UpdatedAt))
	if err != nil {
		return err
	}

	task.ID = id
	return nil
}

// updateTaskRow writes a task's mutable fields and refreshes
// updated_at. Not found when the id does not resolve.
func updateTaskRow(ctx context.Context, q DBTX, task *Task) error {
	task.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
	UPDATE tasks
	SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, q, query, "task", fmt.Sprintf("%d", task.ID),
		task.Title, task.Description, task.Status, task.Priority,
		FormatTimePtrForDB(task.DueDate), FormatTimeForDB(task.UpdatedAt), task.ID)
}

// getOrCreateTag returns the tag with the given name, creating it if
// it does not exist yet. Idempotent keyed by name.
func getOrCreateTag(ctx context.Context, q DBTX, name string) (*Tag, error) {
	insert := `INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING`
	if _, err := q.ExecContext(ctx, insert, name); err != nil {
		return nil, HandleDatabaseError("insert tag", err)
	}

	query := `SELECT id, name FROM tags WHERE name = ?`
	return QuerySingle(ctx, q, query, ScanTag, "tag", name, name)
}

// replaceTaskTags swaps a task's tag links for the given names,
// creating missing tags on the way. An empty name set clears the
// links. Tags are returned in the order the names were given.
func replaceTaskTags(ctx context.Context, q DBTX, taskID int64, tagNames []string) ([]*Tag, error) {
	if _, err := q.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, taskID); err != nil {
		return nil, HandleDatabaseError("clear task tags", err)
	}

	var tags []*Tag
	for _, name := range tagNames {
		tag, err := getOrCreateTag(ctx, q, name)
		if err != nil {
			return nil, err
		}
		if _, err := q.ExecContext(ctx, `INSERT INTO task_tags (task_id, tag_id) VALUES (?, ?)`, taskID, tag.ID); err != nil {
			return nil, HandleDatabaseError("insert task tag", err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
