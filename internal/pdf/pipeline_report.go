package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"leadforge/internal/models"
	"leadforge/internal/services"
)

// Generator renders analytics as PDF (handy to fake in handler tests).
type Generator interface {
	Render(w io.Writer, stats services.Stats, generatedAt time.Time) error
	GenerateReport(stats services.Stats, generatedAt time.Time) (string, error)
}

// ReportGenerator writes pipeline reports with gofpdf.
type ReportGenerator struct {
	RootDir  string // where GenerateReport stores files, e.g. "./files"
	FontPath string // optional TTF; core Helvetica is used when empty or missing
	fontName string
}

func NewReportGenerator(rootDir, fontPath string) *ReportGenerator {
	return &ReportGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "Helvetica",
	}
}

// ReportFilename returns e.g. "pipeline_report_2026-10-17.pdf".
func ReportFilename(at time.Time) string {
	return fmt.Sprintf("pipeline_report_%s.pdf", at.UTC().Format("2006-01-02"))
}

func (g *ReportGenerator) GenerateReport(stats services.Stats, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	absPath := filepath.Join(g.RootDir, ReportFilename(generatedAt))
	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	if err := g.Render(f, stats, generatedAt); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *ReportGenerator) Render(w io.Writer, st services.Stats, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Pipeline report", false)
	pdf.SetAuthor("LeadForge", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	font := g.setupFont(pdf)
	pdf.AddPage()

	// ===== Header
	pdf.SetFont(font, "B", 18)
	pdf.CellFormat(0, 10, "Pipeline report", "", 1, "C", false, 0, "")
	pdf.SetFont(font, "", 11)
	pdf.CellFormat(0, 7, "Generated "+generatedAt.UTC().Format("Jan 02, 2006 15:04 MST"), "", 1, "C", false, 0, "")
	g.hr(pdf)

	// ===== Overview
	g.sectionTitle(pdf, font, "Overview")
	g.kvLine(pdf, font, "Total leads", fmt.Sprint(st.TotalLeads))
	g.kvLine(pdf, font, "Opportunities", fmt.Sprint(st.TotalOpportunities))
	g.kvLine(pdf, font, "Pipeline value", money(st.TotalValue))
	g.kvLine(pdf, font, "Conversion rate", services.FormatPercent(st.ConversionRate))
	g.kvLine(pdf, font, "Average score", fmt.Sprintf("%.0f", st.AvgScore))
	g.kvLine(pdf, font, "Average lead age", fmt.Sprintf("%.1f days", st.AvgLeadAge))
	g.kvLine(pdf, font, "New this week", fmt.Sprint(st.LeadsThisWeek))
	g.hr(pdf)

	// ===== Funnel
	g.sectionTitle(pdf, font, "Conversion funnel")
	fn := st.ConversionFunnel
	g.table(pdf, font, []string{"Step", "Count", "Share"}, [][]string{
		{"Total leads", fmt.Sprint(fn.TotalLeads), services.FormatPercent(services.Share(fn.TotalLeads, fn.TotalLeads))},
		{"Qualified", fmt.Sprint(fn.QualifiedLeads), services.FormatPercent(services.Share(fn.QualifiedLeads, fn.TotalLeads))},
		{"Hot", fmt.Sprint(fn.HotLeads), services.FormatPercent(services.Share(fn.HotLeads, fn.TotalLeads))},
		{"Opportunities", fmt.Sprint(fn.ConvertedToOpportunities), services.FormatPercent(fn.ConversionRate)},
	})

	// ===== Pipeline by stage
	g.sectionTitle(pdf, font, "Pipeline by stage")
	rows := make([][]string, 0, len(models.OpportunityStages))
	for _, stage := range models.OpportunityStages {
		key := string(stage)
		rows = append(rows, []string{key, fmt.Sprint(st.PipelineByStage[key]), money(st.PipelineValueByStage[key])})
	}
	g.table(pdf, font, []string{"Stage", "Opportunities", "Value"}, rows)

	// ===== Leads by source
	g.sectionTitle(pdf, font, "Leads by source")
	rows = rows[:0]
	for _, src := range sortedKeys(st.LeadsBySource) {
		n := st.LeadsBySource[src]
		rows = append(rows, []string{src, fmt.Sprint(n), services.FormatPercent(services.Share(n, st.TotalLeads))})
	}
	g.table(pdf, font, []string{"Source", "Leads", "Share"}, rows)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(font, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	return pdf.Output(w)
}

// setupFont registers the configured TTF and returns the family to use.
func (g *ReportGenerator) setupFont(pdf *gofpdf.Fpdf) string {
	if g.FontPath == "" {
		return g.fontName
	}
	if _, err := os.Stat(g.FontPath); err != nil {
		return g.fontName
	}
	pdf.AddUTF8Font("ReportFont", "", g.FontPath)
	pdf.AddUTF8Font("ReportFont", "B", g.FontPath)
	return "ReportFont"
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, font, s string) {
	pdf.Ln(2)
	pdf.SetFont(font, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, font, key, val string) {
	pdf.SetFont(font, "B", 11)
	pdf.CellFormat(55, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(font, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) table(pdf *gofpdf.Fpdf, font string, header []string, rows [][]string) {
	widths := []float64{70, 45, 55}
	pdf.SetFont(font, "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(font, "", 10)
	for _, r := range rows {
		for i, c := range r {
			align := "L"
			if i > 0 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func money(v float64) string {
	if v == 0 {
		return "$0"
	}
	return services.FormatAmount(&v)
}
