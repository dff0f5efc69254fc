package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"grimoire/internal/models"
	"grimoire/internal/services"
)

type TaskHandler struct {
	service services.GameService
	tg      *services.TelegramService
}

func NewTaskHandler(service services.GameService, tg *services.TelegramService) *TaskHandler {
	return &TaskHandler{service: service, tg: tg}
}

// Create godoc
// @Summary      Add a task to the grimoire
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Success      201 {object} models.Task
// @Failure      400 {object} map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req struct {
		Title       string          `json:"title" binding:"required"`
		Description string          `json:"description"`
		Priority    models.Priority `json:"priority" binding:"omitempty,oneof=critical important normal optional"`
		Effort      models.Effort   `json:"effort" binding:"omitempty,oneof=quick medium large"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.AddTask(c.Request.Context(), req.Title, req.Description, req.Priority, req.Effort)
	if err != nil {
		if errors.Is(err, services.ErrEmptyTitle) {
			log.Printf("[task][create][reject] empty title")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[task][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}
	log.Printf("[task][create][ok] id=%s title=%q priority=%s effort=%s", task.ID, task.Title, task.Priority, task.Effort)
	c.JSON(http.StatusCreated, task)
}

// List godoc
// @Summary      Full grimoire
// @Tags         tasks
// @Produce      json
// @Success      200 {array} models.Task
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	tasks := h.service.Tasks()
	log.Printf("[task][list][ok] count=%d", len(tasks))
	c.JSON(http.StatusOK, tasks)
}

// Update godoc
// @Summary      Edit a pending task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Success      200 {object} models.Task
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req models.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] id=%s: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Priority != nil && !req.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
		return
	}
	if req.Effort != nil && !req.Effort.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid effort"})
		return
	}

	current := h.service.Task(id)
	if current == nil {
		log.Printf("[task][update][404] id=%s", id)
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	// Completed tasks are immutable except by deletion. The store does not
	// enforce this; the boundary does.
	if current.Completed {
		log.Printf("[task][update][deny] id=%s is completed", id)
		c.JSON(http.StatusConflict, gin.H{"error": "completed tasks cannot be edited"})
		return
	}

	task, err := h.service.EditTask(c.Request.Context(), id, req)
	if err != nil {
		log.Printf("[task][update][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	log.Printf("[task][update][ok] id=%s", id)
	c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Success      204
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteTask(c.Request.Context(), id); err != nil {
		log.Printf("[task][delete][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}
	log.Printf("[task][delete][ok] id=%s", id)
	c.Status(http.StatusNoContent)
}

// Complete godoc
// @Summary      Complete a task and collect XP
// @Description  Idempotent: completing an already-completed task awards nothing.
// @Tags         tasks
// @Produce      json
// @Success      200 {object} services.CompletionResult
// @Failure      404 {object} map[string]string
// @Router       /tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	id := c.Param("id")

	res, err := h.service.CompleteTask(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][complete][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete task"})
		return
	}
	if res == nil {
		task := h.service.Task(id)
		if task == nil {
			log.Printf("[task][complete][404] id=%s", id)
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		// Already completed: no-op, nothing awarded.
		log.Printf("[task][complete][noop] id=%s already completed", id)
		c.JSON(http.StatusOK, services.CompletionResult{
			Task:     *task,
			Progress: h.service.Progress(),
			Combo:    h.service.Combo(),
		})
		return
	}

	log.Printf("[task][complete][ok] id=%s xp=%d level=%d streak=%d combo=%d",
		id, res.XPAwarded, res.Progress.Level, res.Progress.CurrentStreak, res.Combo.TasksInCombo)
	c.JSON(http.StatusOK, res)

	if res.LeveledUp {
		h.tg.NotifyLevelUp(res.Task.Title, res.Progress.Level)
	}
}
