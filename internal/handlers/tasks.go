package handlers

import (
	"log"
	"net/http"
	"strconv"

	"task-management-system/backend/internal/middleware"
	"task-management-system/backend/internal/models"
	"task-management-system/backend/internal/services"
	"task-management-system/backend/internal/worker"

	"github.com/gin-gonic/gin"
)

// TaskHandler exposes the task operations over HTTP. Domain failures
// arrive inside the Result and map to 4xx; a non-nil error from the
// service is an infrastructure fault and maps to 500.
type TaskHandler struct {
	tasks services.TaskService
	jobs  *worker.JobQueue
}

func NewTaskHandler(tasks services.TaskService, jobs *worker.JobQueue) *TaskHandler {
	return &TaskHandler{tasks: tasks, jobs: jobs}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req models.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.tasks.CreateTask(c.Request.Context(), req)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	res.Match(
		func(task models.Task) {
			h.notifyAssigned(task)
			c.JSON(http.StatusCreated, task.ToResponse())
		},
		func(taskErr models.TaskError) { writeTaskError(c, taskErr) },
	)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	res, err := h.tasks.GetTaskByID(c.Request.Context(), id, principal)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	res.Match(
		func(view models.TaskResponse) { c.JSON(http.StatusOK, view) },
		func(taskErr models.TaskError) { writeTaskError(c, taskErr) },
	)
}

func (h *TaskHandler) GetTasksByUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	res, err := h.tasks.GetTasksByUserID(c.Request.Context(), userID)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	res.Match(
		func(views []models.TaskResponse) { c.JSON(http.StatusOK, views) },
		func(taskErr models.TaskError) { writeTaskError(c, taskErr) },
	)
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	views, err := h.tasks.GetAllTasks(c.Request.Context())
	if err != nil {
		writeInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.tasks.UpdateTask(c.Request.Context(), id, req, principal)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	res.Match(
		func(view models.TaskResponse) { c.JSON(http.StatusOK, view) },
		func(taskErr models.TaskError) { writeTaskError(c, taskErr) },
	)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.tasks.DeleteTask(c.Request.Context(), id)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	res.Match(
		func(bool) { c.JSON(http.StatusNoContent, nil) },
		func(taskErr models.TaskError) { writeTaskError(c, taskErr) },
	)
}

// notifyAssigned enqueues a notification job for the assignee. Delivery
// is best effort; a broken queue never fails the create.
func (h *TaskHandler) notifyAssigned(task models.Task) {
	if h.jobs == nil {
		return
	}

	err := h.jobs.Enqueue(worker.QueueNotifications, worker.JobTypeTaskAssigned, map[string]interface{}{
		"task_id":          task.ID,
		"assigned_user_id": task.AssignedUserID,
		"title":            task.Title,
	})
	if err != nil {
		log.Printf("failed to enqueue assignment notification for task %d: %v", task.ID, err)
	}
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}

func writeTaskError(c *gin.Context, taskErr models.TaskError) {
	status := http.StatusInternalServerError
	switch taskErr.Code {
	case models.TaskErrorUserNotFound, models.TaskErrorNotFound:
		status = http.StatusNotFound
	case models.TaskErrorForbiddenAccess:
		status = http.StatusForbidden
	}

	c.JSON(status, gin.H{
		"error":   taskErr.Code.String(),
		"message": taskErr.Message,
	})
}

func writeInternalError(c *gin.Context, err error) {
	log.Printf("task request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "failed to process task request",
	})
}
