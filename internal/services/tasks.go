package services

import (
	"context"
	"fmt"
	"strings"

	"task-management-system/backend/internal/models"
	"task-management-system/backend/internal/repositories"
)

// UserDirectory is the user-lookup collaborator consumed by the task
// service. It is read-only: the task service never creates, updates, or
// deletes users. An absent user is (nil, nil).
type UserDirectory interface {
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindByName(ctx context.Context, name string) (*models.User, error)
	IsInRole(ctx context.Context, user *models.User, role models.Role) (bool, error)
}

// Instantiated result shapes returned by TaskService operations.
type (
	TaskResult     = models.Result[models.Task, models.TaskError]
	TaskViewResult = models.Result[models.TaskResponse, models.TaskError]
	TaskListResult = models.Result[[]models.TaskResponse, models.TaskError]
	DeleteResult   = models.Result[bool, models.TaskError]
)

// TaskService orchestrates task CRUD with role- and ownership-aware
// permission checks. Expected domain failures come back in the Result;
// store or directory faults come back on the error channel untranslated.
// The service is stateless between calls and safe for concurrent use.
type TaskService interface {
	CreateTask(ctx context.Context, req models.TaskRequest) (TaskResult, error)
	GetTaskByID(ctx context.Context, id int, principal models.Principal) (TaskViewResult, error)
	GetTasksByUserID(ctx context.Context, userID int) (TaskListResult, error)
	GetAllTasks(ctx context.Context) ([]models.TaskResponse, error)
	UpdateTask(ctx context.Context, id int, updated models.TaskRequest, principal models.Principal) (TaskViewResult, error)
	DeleteTask(ctx context.Context, id int) (DeleteResult, error)
}

// defaultStatus is assigned when a create request carries no status.
const defaultStatus = "pending"

// legacyOwnerRole is the literal the owner-update branch historically
// compares the raw role claim against. Stored role values are capitalized
// ("User"), so under faithful matching a non-admin update never succeeds.
// See TaskServiceConfig.NormalizeOwnerRole.
const legacyOwnerRole = "user"

type TaskServiceConfig struct {
	// NormalizeOwnerRole switches UpdateTask's owner branch from the
	// historical raw-claim comparison against "user" to the parsed
	// RoleUser. Off by default for compatibility with existing clients.
	NormalizeOwnerRole bool
}

type TaskServiceImpl struct {
	tasks repositories.TaskRepository
	users UserDirectory
	cfg   TaskServiceConfig
}

func NewTaskService(tasks repositories.TaskRepository, users UserDirectory) *TaskServiceImpl {
	return NewTaskServiceWithConfig(tasks, users, TaskServiceConfig{})
}

func NewTaskServiceWithConfig(tasks repositories.TaskRepository, users UserDirectory, cfg TaskServiceConfig) *TaskServiceImpl {
	return &TaskServiceImpl{tasks: tasks, users: users, cfg: cfg}
}

// CreateTask persists a new task after verifying the assignee exists. The
// status defaults to "pending" when blank and is lowercased otherwise.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req models.TaskRequest) (TaskResult, error) {
	assignee, err := s.users.FindByID(ctx, req.AssignedUserID)
	if err != nil {
		return TaskResult{}, err
	}
	if assignee == nil {
		return models.Failure[models.Task, models.TaskError](
			models.NewUserNotFoundError(fmt.Sprintf("Assigned user with ID %d not found.", req.AssignedUserID)),
		), nil
	}

	task := models.Task{
		Title:          req.Title,
		Description:    req.Description,
		Status:         normalizeCreateStatus(req.Status),
		AssignedUserID: req.AssignedUserID,
	}

	if err := s.tasks.Add(ctx, &task); err != nil {
		return TaskResult{}, err
	}

	return models.Success[models.Task, models.TaskError](task), nil
}

// GetTaskByID returns the task view when the caller is an admin or the
// assignee, ForbiddenAccess otherwise.
func (s *TaskServiceImpl) GetTaskByID(ctx context.Context, id int, principal models.Principal) (TaskViewResult, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return TaskViewResult{}, err
	}
	if task == nil {
		return failView(models.NewNotFoundError("Task not found")), nil
	}

	if !task.ViewableBy(principal) {
		return failView(models.NewForbiddenAccessError()), nil
	}

	return models.Success[models.TaskResponse, models.TaskError](task.ToResponse()), nil
}

// GetTasksByUserID lists the tasks assigned to userID. The target user
// must exist, and a user with zero tasks is reported as NotFound rather
// than an empty success; both behaviors are contractual.
func (s *TaskServiceImpl) GetTasksByUserID(ctx context.Context, userID int) (TaskListResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return TaskListResult{}, err
	}
	if user == nil {
		return models.Failure[[]models.TaskResponse, models.TaskError](
			models.NewNotFoundError("User not found"),
		), nil
	}

	tasks, err := s.tasks.GetByUserID(ctx, userID)
	if err != nil {
		return TaskListResult{}, err
	}
	if len(tasks) == 0 {
		return models.Failure[[]models.TaskResponse, models.TaskError](
			models.NewNotFoundError("No tasks found for this user"),
		), nil
	}

	views := make([]models.TaskResponse, 0, len(tasks))
	for i := range tasks {
		views = append(views, tasks[i].ToResponse())
	}

	return models.Success[[]models.TaskResponse, models.TaskError](views), nil
}

// GetAllTasks always succeeds; an empty store yields an empty slice.
// Deliberately asymmetric with GetTasksByUserID.
func (s *TaskServiceImpl) GetAllTasks(ctx context.Context) ([]models.TaskResponse, error) {
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.TaskResponse, 0, len(tasks))
	for i := range tasks {
		views = append(views, tasks[i].ToResponse())
	}

	return views, nil
}

// UpdateTask applies the role-gated field set: admins overwrite title,
// description, status and assignee; an owner matching the owner-role rule
// overwrites status only; anyone else is forbidden. Status is stored
// verbatim on update (lowercasing happens only on create).
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id int, updated models.TaskRequest, principal models.Principal) (TaskViewResult, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return TaskViewResult{}, err
	}
	if task == nil {
		return failView(models.NewNotFoundError("Task not found")), nil
	}

	switch {
	case principal.Role == models.RoleAdmin:
		task.Title = updated.Title
		task.Description = updated.Description
		task.Status = updated.Status
		task.AssignedUserID = updated.AssignedUserID
	case s.ownerRoleMatches(principal) && task.AssignedUserID == principal.UserID:
		task.Status = updated.Status
	default:
		return failView(models.NewForbiddenAccessError()), nil
	}

	// Drop the preloaded navigation so the store writes task columns only.
	task.AssignedUser = nil

	if err := s.tasks.Update(ctx, task); err != nil {
		return TaskViewResult{}, err
	}

	return models.Success[models.TaskResponse, models.TaskError](task.ToResponse()), nil
}

// DeleteTask removes the task permanently. No ownership check happens
// here: the route-level authorization policy restricts who may call it.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id int) (DeleteResult, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}
	if task == nil {
		return models.Failure[bool, models.TaskError](models.NewNotFoundError("Task not found")), nil
	}

	if err := s.tasks.Delete(ctx, task); err != nil {
		return DeleteResult{}, err
	}

	return models.Success[bool, models.TaskError](true), nil
}

func (s *TaskServiceImpl) ownerRoleMatches(principal models.Principal) bool {
	if s.cfg.NormalizeOwnerRole {
		return principal.Role == models.RoleUser
	}
	return principal.RawRole == legacyOwnerRole
}

func normalizeCreateStatus(status string) string {
	if strings.TrimSpace(status) == "" {
		return defaultStatus
	}
	return strings.ToLower(status)
}

func failView(err models.TaskError) TaskViewResult {
	return models.Failure[models.TaskResponse, models.TaskError](err)
}
