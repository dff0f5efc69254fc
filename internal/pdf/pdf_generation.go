package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"grimoire/internal/models"
)

// Generator renders progress reports to files (interface keeps handlers
// mockable in tests).
type Generator interface {
	GenerateProgressReport(data ReportData) (string, error)
}

// ReportGenerator writes PDFs under RootDir.
type ReportGenerator struct {
	RootDir  string
	fontName string
}

// ReportData mirrors the progress summary the report service produces.
type ReportData struct {
	GeneratedAt       time.Time
	Level             int
	MaxLevel          int
	TotalXP           int
	XPIntoLevel       int
	XPForNextLevel    int
	CurrentStreak     int
	BestStreak        int
	TasksCompleted    int
	TasksPending      int
	PendingByPriority map[models.Priority]int
	RecentCompletions []models.Task
	Filename          string // optional; derived from the date when empty
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{
		RootDir:  filepath.Clean(rootDir),
		fontName: "Helvetica",
	}
}

func (g *ReportGenerator) GenerateProgressReport(data ReportData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("progress_%s.pdf", data.GeneratedAt.Format("2006-01-02"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Grimoire progress report", false)
	pdf.SetAuthor("Grimoire", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "PROGRESS REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("as of %s", data.GeneratedAt.Format("02 Jan 2006 15:04"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	pdf.Ln(3)

	g.sectionTitle(pdf, "Progression")
	g.kvLine(pdf, "Level", fmt.Sprintf("%d of %d", data.Level, data.MaxLevel))
	g.kvLine(pdf, "Total XP", fmt.Sprintf("%d", data.TotalXP))
	g.kvLine(pdf, "XP into level", fmt.Sprintf("%d (next level at %d)", data.XPIntoLevel, data.XPForNextLevel))
	g.kvLine(pdf, "Current streak", fmt.Sprintf("%d days", data.CurrentStreak))
	g.kvLine(pdf, "Best streak", fmt.Sprintf("%d days", data.BestStreak))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Grimoire")
	g.kvLine(pdf, "Tasks completed", fmt.Sprintf("%d", data.TasksCompleted))
	g.kvLine(pdf, "Tasks pending", fmt.Sprintf("%d", data.TasksPending))
	for _, p := range []models.Priority{
		models.PriorityCritical, models.PriorityImportant, models.PriorityNormal, models.PriorityOptional,
	} {
		if n := data.PendingByPriority[p]; n > 0 {
			g.kvLine(pdf, "  "+string(p), fmt.Sprintf("%d", n))
		}
	}
	pdf.Ln(2)
	g.hr(pdf)

	if len(data.RecentCompletions) > 0 {
		g.sectionTitle(pdf, "Recently completed")
		pdf.SetFont(g.fontName, "", 11)
		for _, t := range data.RecentCompletions {
			when := ""
			if t.CompletedAt != nil {
				when = t.CompletedAt.Format("02 Jan")
			}
			line := fmt.Sprintf("%s  —  %s (+%d XP)", when, t.Title, t.Effort.XP())
			pdf.MultiCell(0, 6, line, "", "L", false)
		}
		pdf.Ln(2)
		g.hr(pdf)
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(g.RootDir, filepath.Base(filename)), nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
