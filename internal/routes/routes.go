package routes

import (
	"github.com/gin-gonic/gin"

	"grimoire/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	taskHandler *handlers.TaskHandler,
	missionHandler *handlers.MissionHandler,
	progressHandler *handlers.ProgressHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/", taskHandler.List)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/complete", taskHandler.Complete)
	}

	// MISSION
	mission := r.Group("/mission")
	{
		mission.POST("/generate", missionHandler.Generate)
		mission.GET("/today", missionHandler.Today)
	}

	// PROGRESS
	r.GET("/progress", progressHandler.Progress)
	r.GET("/combo", progressHandler.Combo)

	// REPORTS
	reports := r.Group("/reports")
	{
		reports.GET("/progress", reportHandler.Progress)
		reports.GET("/progress/pdf", reportHandler.ProgressPDF)
	}

	return r
}
