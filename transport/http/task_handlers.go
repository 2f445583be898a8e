package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/ports"
	"github.com/taskdeck/taskdeck/service"
)

// TaskHandlers contains the HTTP handlers for the task resource.
type TaskHandlers struct {
	tasks *service.TaskService
}

// NewTaskHandlers creates new task handlers.
func NewTaskHandlers(tasks *service.TaskService) *TaskHandlers {
	return &TaskHandlers{tasks: tasks}
}

type taskRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

func (r taskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    core.Priority(r.Priority),
	}
}

// List handles GET /tasks with optional search, priority and completed filters.
func (h *TaskHandlers) List(c *gin.Context) {
	filter := ports.TaskFilter{
		Search:   c.Query("search"),
		Priority: core.Priority(c.Query("priority")),
	}
	if v := c.Query("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid completed filter")
			return
		}
		filter.Completed = &completed
	}

	tasks, err := h.tasks.List(c.Request.Context(), userID(c), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	respondData(c, http.StatusOK, gin.H{"tasks": tasks})
}

// Create handles POST /tasks.
func (h *TaskHandlers) Create(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task data")
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), userID(c), req.toInput())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create task")
		return
	}

	respondMessage(c, http.StatusCreated, "Task created successfully", gin.H{"task": task})
}

// Update handles PUT /tasks/:id.
func (h *TaskHandlers) Update(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task data")
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), userID(c), c.Param("id"), req.toInput())
	if err != nil {
		if errors.Is(err, core.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "Task not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to update task")
		return
	}

	respondMessage(c, http.StatusOK, "Task updated successfully", gin.H{"task": task})
}

// Delete handles DELETE /tasks/:id.
func (h *TaskHandlers) Delete(c *gin.Context) {
	err := h.tasks.Delete(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, core.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "Task not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	respondMessage(c, http.StatusOK, "Task deleted successfully", nil)
}
