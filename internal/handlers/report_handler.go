package handlers

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"grimoire/internal/pdf"
	"grimoire/internal/services"
)

type ReportHandler struct {
	reports services.ReportService
	pdfGen  pdf.Generator
}

func NewReportHandler(reports services.ReportService, pdfGen pdf.Generator) *ReportHandler {
	return &ReportHandler{reports: reports, pdfGen: pdfGen}
}

// Progress godoc
// @Summary      Progress summary
// @Tags         reports
// @Produce      json
// @Success      200 {object} services.ProgressReport
// @Router       /reports/progress [get]
func (h *ReportHandler) Progress(c *gin.Context) {
	report := h.reports.ProgressReport()
	log.Printf("[report][progress][ok] level=%d pending=%d", report.Level, report.TasksPending)
	c.JSON(http.StatusOK, report)
}

// ProgressPDF godoc
// @Summary      Progress report as PDF
// @Tags         reports
// @Produce      application/pdf
// @Success      200 {file} file
// @Router       /reports/progress/pdf [get]
func (h *ReportHandler) ProgressPDF(c *gin.Context) {
	report := h.reports.ProgressReport()
	path, err := h.pdfGen.GenerateProgressReport(pdf.ReportData{
		GeneratedAt:       report.GeneratedAt,
		Level:             report.Level,
		MaxLevel:          report.MaxLevel,
		TotalXP:           report.TotalXP,
		XPIntoLevel:       report.XPIntoLevel,
		XPForNextLevel:    report.XPForNextLevel,
		CurrentStreak:     report.CurrentStreak,
		BestStreak:        report.BestStreak,
		TasksCompleted:    report.TasksCompleted,
		TasksPending:      report.TasksPending,
		PendingByPriority: report.PendingByPriority,
		RecentCompletions: report.RecentCompletions,
	})
	if err != nil {
		log.Printf("[report][pdf][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	log.Printf("[report][pdf][ok] path=%s", path)
	c.FileAttachment(path, filepath.Base(path))
}
