package sqlite

import "time"

// Task represents a task row.
// Status and Priority are stored as their string literals; timestamps
// are stored as RFC3339 text.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time // Using pointer to allow NULL values
	CreatedByID int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// User represents a team member row.
type User struct {
	ID    int64
	Name  string
	Email string
	Image string
}

// Tag represents a tag row. Names are unique.
type Tag struct {
	ID   int64
	Name string
}

// Project represents a project row.
type Project struct {
	ID   int64
	Name string
}
