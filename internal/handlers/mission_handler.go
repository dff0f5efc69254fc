package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"grimoire/internal/services"
)

type MissionHandler struct {
	service services.GameService
	tg      *services.TelegramService
}

func NewMissionHandler(service services.GameService, tg *services.TelegramService) *MissionHandler {
	return &MissionHandler{service: service, tg: tg}
}

// Generate godoc
// @Summary      Generate (or regenerate) today's mission
// @Description  Destructive: replaces any existing mission for the day.
// @Tags         mission
// @Produce      json
// @Success      200 {object} models.MissionView
// @Router       /mission/generate [post]
func (h *MissionHandler) Generate(c *gin.Context) {
	mission, err := h.service.GenerateDailyMission(c.Request.Context())
	if err != nil {
		log.Printf("[mission][generate][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate mission"})
		return
	}
	log.Printf("[mission][generate][ok] id=%s tasks=%d", mission.ID, len(mission.Tasks))
	c.JSON(http.StatusOK, mission)

	h.tg.NotifyDailyMission(mission)
}

// Today godoc
// @Summary      Today's mission
// @Description  404 signals a stale or absent mission; regenerate to refresh.
// @Tags         mission
// @Produce      json
// @Success      200 {object} models.MissionView
// @Failure      404 {object} map[string]string
// @Router       /mission/today [get]
func (h *MissionHandler) Today(c *gin.Context) {
	mission := h.service.TodaysMission()
	if mission == nil {
		log.Printf("[mission][today][404] no mission for today")
		c.JSON(http.StatusNotFound, gin.H{"error": "no mission for today"})
		return
	}
	log.Printf("[mission][today][ok] id=%s tasks=%d completed=%v", mission.ID, len(mission.Tasks), mission.Completed)
	c.JSON(http.StatusOK, mission)
}
