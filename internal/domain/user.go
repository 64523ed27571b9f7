package domain

// User represents a team member.
// Users are referenced by tasks through CreatedByID; a user never owns
// a task's lifecycle, the reference exists for lookup only.
type User struct {
	ID    int64
	Name  string
	Email string
	Image string
}

// IsValid checks if the user has valid data.
func (u User) IsValid() bool {
	return u.Name != "" && u.Email != ""
}

// String returns the user name for display purposes.
func (u User) String() string {
	return u.Name
}

// Tag represents a label attached to tasks. Tags are unique by name
// and created lazily when a task names one that doesn't exist yet.
type Tag struct {
	ID   int64
	Name string
}

// Project represents a grouping of work. The core only exposes a
// read-only listing of projects.
type Project struct {
	ID   int64
	Name string
}
