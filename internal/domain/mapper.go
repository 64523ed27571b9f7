package domain

import (
	"taskboard/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(domainTask Task) sqlite.Task {
	return sqlite.Task{
		ID:          domainTask.ID,
		Title:       domainTask.Title,
		Description: domainTask.Description,
		Status:      string(domainTask.Status),
		Priority:    string(domainTask.Priority),
		DueDate:     domainTask.DueDate,
		CreatedByID: domainTask.CreatedByID,
		CreatedAt:   domainTask.CreatedAt,
		UpdatedAt:   domainTask.UpdatedAt,
	}
}

// FromDatabase converts a database Task to a domain Task.
// Status and priority literals are validated at the repository
// boundary, the engines only ever see enumerated values.
func (m *TaskMapper) FromDatabase(dbTask sqlite.Task) Task {
	return Task{
		ID:          dbTask.ID,
		Title:       dbTask.Title,
		Description: dbTask.Description,
		Status:      Status(dbTask.Status),
		Priority:    Priority(dbTask.Priority),
		DueDate:     dbTask.DueDate,
		CreatedByID: dbTask.CreatedByID,
		CreatedAt:   dbTask.CreatedAt,
		UpdatedAt:   dbTask.UpdatedAt,
	}
}

// FromDatabaseSlice converts a slice of database Tasks to domain Tasks.
func (m *TaskMapper) FromDatabaseSlice(dbTasks []*sqlite.Task) []Task {
	domainTasks := make([]Task, len(dbTasks))
	for i, task := range dbTasks {
		domainTasks[i] = m.FromDatabase(*task)
	}
	return domainTasks
}

// UserMapper handles conversion between domain and database User models.
type UserMapper struct{}

// NewUserMapper creates a new UserMapper instance.
func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

// FromDatabase converts a database User to a domain User.
func (m *UserMapper) FromDatabase(dbUser sqlite.User) User {
	return User{
		ID:    dbUser.ID,
		Name:  dbUser.Name,
		Email: dbUser.Email,
		Image: dbUser.Image,
	}
}

// FromDatabaseSlice converts a slice of database Users to domain Users.
func (m *UserMapper) FromDatabaseSlice(dbUsers []*sqlite.User) []User {
	domainUsers := make([]User, len(dbUsers))
	for i, user := range dbUsers {
		domainUsers[i] = m.FromDatabase(*user)
	}
	return domainUsers
}

// TagMapper handles conversion between domain and database Tag models.
type TagMapper struct{}

// NewTagMapper creates a new TagMapper instance.
func NewTagMapper() *TagMapper {
	return &TagMapper{}
}

// FromDatabase converts a database Tag to a domain Tag.
func (m *TagMapper) FromDatabase(dbTag sqlite.Tag) Tag {
	return Tag{
		ID:   dbTag.ID,
		Name: dbTag.Name,
	}
}

// FromDatabaseSlice converts a slice of database Tags to domain Tags.
func (m *TagMapper) FromDatabaseSlice(dbTags []*sqlite.Tag) []Tag {
	domainTags := make([]Tag, len(dbTags))
	for i, tag := range dbTags {
		domainTags[i] = m.FromDatabase(*tag)
	}
	return domainTags
}

// ProjectMapper handles conversion between domain and database Project models.
type ProjectMapper struct{}

// NewProjectMapper creates a new ProjectMapper instance.
func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

// FromDatabase converts a database Project to a domain Project.
func (m *ProjectMapper) FromDatabase(dbProject sqlite.Project) Project {
	return Project{
		ID:   dbProject.ID,
		Name: dbProject.Name,
	}
}

// FromDatabaseSlice converts a slice of database Projects to domain Projects.
func (m *ProjectMapper) FromDatabaseSlice(dbProjects []*sqlite.Project) []Project {
	domainProjects := make([]Project, len(dbProjects))
	for i, project := range dbProjects {
		domainProjects[i] = m.FromDatabase(*project)
	}
	return domainProjects
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task    *TaskMapper
	User    *UserMapper
	Tag     *TagMapper
	Project *ProjectMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task:    NewTaskMapper(),
		User:    NewUserMapper(),
		Tag:     NewTagMapper(),
		Project: NewProjectMapper(),
	}
}
