package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"grimoire/internal/services"
)

type ProgressHandler struct {
	service services.GameService
}

func NewProgressHandler(service services.GameService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// Progress godoc
// @Summary      Current user progression
// @Tags         progress
// @Produce      json
// @Success      200 {object} models.UserProgress
// @Router       /progress [get]
func (h *ProgressHandler) Progress(c *gin.Context) {
	p := h.service.Progress()
	log.Printf("[progress][get][ok] level=%d xp=%d streak=%d", p.Level, p.TotalXP, p.CurrentStreak)
	c.JSON(http.StatusOK, p)
}

// Combo godoc
// @Summary      Current combo state
// @Tags         progress
// @Produce      json
// @Success      200 {object} models.Combo
// @Router       /combo [get]
func (h *ProgressHandler) Combo(c *gin.Context) {
	combo := h.service.Combo()
	log.Printf("[combo][get][ok] active=%v count=%d", combo.Active, combo.TasksInCombo)
	c.JSON(http.StatusOK, combo)
}
