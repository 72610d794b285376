package services

import (
	"context"
	"fmt"
	"time"

	"task-management-system/backend/internal/cache"
	"task-management-system/backend/internal/models"
)

const (
	allTasksCacheKey    = "tasks:all"
	userTasksKeyPattern = "tasks:user:*"
	listCacheTTL        = 10 * time.Minute
)

// CachedTaskService decorates a TaskService with a Redis read cache for
// the principal-free listing operations. Permission-checked reads always
// hit the store, and a failed Result is never cached. Cache faults are
// swallowed: a broken cache degrades to the inner service.
type CachedTaskService struct {
	inner TaskService
	cache *cache.RedisCache
}

func NewCachedTaskService(inner TaskService, c *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{inner: inner, cache: c}
}

func (s *CachedTaskService) CreateTask(ctx context.Context, req models.TaskRequest) (TaskResult, error) {
	res, err := s.inner.CreateTask(ctx, req)
	if err == nil && res.IsSuccess() {
		s.invalidateLists()
	}
	return res, err
}

func (s *CachedTaskService) GetTaskByID(ctx context.Context, id int, principal models.Principal) (TaskViewResult, error) {
	return s.inner.GetTaskByID(ctx, id, principal)
}

func (s *CachedTaskService) GetTasksByUserID(ctx context.Context, userID int) (TaskListResult, error) {
	key := userTasksKey(userID)

	var cached []models.TaskResponse
	if err := s.cache.Get(key, &cached); err == nil {
		return models.Success[[]models.TaskResponse, models.TaskError](cached), nil
	}

	res, err := s.inner.GetTasksByUserID(ctx, userID)
	if err == nil && res.IsSuccess() {
		s.cache.Set(key, res.Value(), listCacheTTL)
	}
	return res, err
}

func (s *CachedTaskService) GetAllTasks(ctx context.Context) ([]models.TaskResponse, error) {
	var cached []models.TaskResponse
	if err := s.cache.Get(allTasksCacheKey, &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.inner.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(allTasksCacheKey, tasks, listCacheTTL)
	return tasks, nil
}

func (s *CachedTaskService) UpdateTask(ctx context.Context, id int, updated models.TaskRequest, principal models.Principal) (TaskViewResult, error) {
	res, err := s.inner.UpdateTask(ctx, id, updated, principal)
	if err == nil && res.IsSuccess() {
		s.invalidateLists()
	}
	return res, err
}

func (s *CachedTaskService) DeleteTask(ctx context.Context, id int) (DeleteResult, error) {
	res, err := s.inner.DeleteTask(ctx, id)
	if err == nil && res.IsSuccess() {
		s.invalidateLists()
	}
	return res, err
}

// invalidateLists drops every list projection. An update may reassign a
// task between users, so all per-user keys go, not just the writer's.
func (s *CachedTaskService) invalidateLists() {
	s.cache.Delete(allTasksCacheKey)
	s.cache.DeletePattern(userTasksKeyPattern)
}

func userTasksKey(userID int) string {
	return fmt.Sprintf("tasks:user:%d", userID)
}
