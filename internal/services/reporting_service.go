package services

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository/sqlite"
)

// reportingServiceImpl implements the ReportingService interface.
// Reads take a fresh snapshot from the repository and pass it through
// the query engine; no state is cached between calls.
type reportingServiceImpl struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
	now    func() time.Time
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(repo sqlite.Repository) ReportingService {
	return &reportingServiceImpl{
		repo:   repo,
		mapper: domain.NewMapper(),
		now:    time.Now,
	}
}

// ListTasks returns all tasks, most recently created first
func (r *reportingServiceImpl) ListTasks(ctx context.Context) ([]domain.Task, error) {
	dbTasks, err := r.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return r.mapper.Task.FromDatabaseSlice(dbTasks), nil
}

// ListUsers returns all team members
func (r *reportingServiceImpl) ListUsers(ctx context.Context) ([]domain.User, error) {
	dbUsers, err := r.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return r.mapper.User.FromDatabaseSlice(dbUsers), nil
}

// ListProjects returns all projects
func (r *reportingServiceImpl) ListProjects(ctx context.Context) ([]domain.Project, error) {
	dbProjects, err := r.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return r.mapper.Project.FromDatabaseSlice(dbProjects), nil
}

// FilterTasks returns the tasks matching the filter, in snapshot order
func (r *reportingServiceImpl) FilterTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	tasks, err := r.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return FilterTasks(tasks, filter), nil
}

// GetDashboardStats returns per-status counts plus the overdue count
func (r *reportingServiceImpl) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	tasks, err := r.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Counts:  CountByStatus(tasks),
		Overdue: len(OverdueTasks(tasks, r.now())),
	}, nil
}

// GetTeamStats returns per-user task totals for every team member
func (r *reportingServiceImpl) GetTeamStats(ctx context.Context) ([]TeamMemberStats, error) {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := r.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	team := make([]TeamMemberStats, len(users))
	for i, user := range users {
		team[i] = TeamMemberStats{
			User:  user,
			Stats: UserTasksStats(tasks, user.ID),
		}
	}
	return team, nil
}

// GetRecentTasks returns the most recently created tasks for previews
func (r *reportingServiceImpl) GetRecentTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		limit = DefaultRecentTasksLimit
	}

	tasks, err := r.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return RecentTasks(tasks, limit), nil
}
