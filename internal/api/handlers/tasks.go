package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jrichmond93/ChatbotPOC/internal/logger"
	"github.com/jrichmond93/ChatbotPOC/internal/tasks"
	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

type TaskHandler struct {
	repo *tasks.Repository
}

func NewTaskHandler(repo *tasks.Repository) *TaskHandler {
	return &TaskHandler{repo: repo}
}

// ListTasks handles GET /api/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		logger.Errorf("[tasks] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req types.CreateTaskRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	task, err := h.repo.Create(c.Request.Context(), req.Title)
	if err != nil {
		logger.Errorf("[tasks] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req types.UpdateTaskRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	task, err := h.repo.Update(c.Request.Context(), id, req)
	if errors.Is(err, tasks.ErrNotFound) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Task not found"})
		return
	}
	if err != nil {
		logger.Errorf("[tasks] update %d failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to update task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	err := h.repo.Delete(c.Request.Context(), id)
	if errors.Is(err, tasks.ErrNotFound) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Task not found"})
		return
	}
	if err != nil {
		logger.Errorf("[tasks] delete %d failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, types.MessageResponse{Message: "Task deleted successfully"})
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid task id"})
		return 0, false
	}
	return id, true
}
