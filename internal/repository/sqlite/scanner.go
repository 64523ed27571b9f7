package sqlite

import (
	"database/sql"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task from a database row
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	var description sql.NullString
	var dueDate sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&task.Priority,
		&dueDate,
		&task.CreatedByID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = description.String
	}

	if dueDate.Valid {
		due, err := ParseTimeFromDB(dueDate.String)
		if err != nil {
			return nil, err
		}
		task.DueDate = &due
	}

	task.CreatedAt, err = ParseTimeFromDB(createdAt)
	if err != nil {
		return nil, err
	}

	task.UpdatedAt, err = ParseTimeFromDB(updatedAt)
	if err != nil {
		return nil, err
	}

	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*Task, error) {
	var tasks []*Task
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// ScanUser scans a single user from a database row
func ScanUser(scanner Scanner) (*User, error) {
	user := &User{}
	var image sql.NullString

	err := scanner.Scan(&user.ID, &user.Name, &user.Email, &image)
	if err != nil {
		return nil, err
	}

	if image.Valid {
		user.Image = image.String
	}

	return user, nil
}

// ScanUsers scans multiple users from database rows
func ScanUsers(rows Rows) ([]*User, error) {
	var users []*User
	for rows.Next() {
		user, err := ScanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// ScanTag scans a single tag from a database row
func ScanTag(scanner Scanner) (*Tag, error) {
	tag := &Tag{}
	err := scanner.Scan(&tag.ID, &tag.Name)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// ScanTags scans multiple tags from database rows
func ScanTags(rows Rows) ([]*Tag, error) {
	var tags []*Tag
	for rows.Next() {
		tag, err := ScanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// ScanProject scans a single project from a database row
func ScanProject(scanner Scanner) (*Project, error) {
	project := &Project{}
	err := scanner.Scan(&project.ID, &project.Name)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ScanProjects scans multiple projects from database rows
func ScanProjects(rows Rows) ([]*Project, error) {
	var projects []*Project
	for rows.Next() {
		project, err := ScanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}
