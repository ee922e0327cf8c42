package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"leadforge/internal/apperr"
	"leadforge/internal/models"
)

var (
	LeadCSVHeaders = []string{
		"ID", "Name", "Company", "Email", "Source", "Score", "Status", "Created At", "Last Contacted",
	}
	OpportunityCSVHeaders = []string{
		"ID", "Name", "Stage", "Amount", "Account Name", "Converted From Lead", "Converted At",
	}
)

// isoMillis matches the timestamps the dashboard has always exported.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Export is a rendered CSV file.
type Export struct {
	Filename string
	Content  string
}

// LeadsCSV renders leads with every field quoted. Empty input is an
// EMPTY_DATA storage error.
func LeadsCSV(leads []models.Lead) (string, error) {
	if len(leads) == 0 {
		return "", apperr.NewStorage(apperr.CodeEmptyData, "No leads to export", nil)
	}
	rows := make([][]string, 0, len(leads))
	for _, l := range leads {
		last := ""
		if l.LastContacted != nil {
			last = formatISO(*l.LastContacted)
		}
		rows = append(rows, []string{
			l.ID, l.Name, l.Company, l.Email, string(l.Source),
			strconv.Itoa(l.Score), string(l.Status), formatISO(l.CreatedAt), last,
		})
	}
	return renderCSV(LeadCSVHeaders, rows), nil
}

func OpportunitiesCSV(opps []models.Opportunity) (string, error) {
	if len(opps) == 0 {
		return "", apperr.NewStorage(apperr.CodeEmptyData, "No opportunities to export", nil)
	}
	rows := make([][]string, 0, len(opps))
	for _, o := range opps {
		rows = append(rows, []string{
			o.ID, o.Name, string(o.Stage), FormatAmount(o.Amount),
			o.AccountName, o.ConvertedFrom, formatISO(o.ConvertedAt),
		})
	}
	return renderCSV(OpportunityCSVHeaders, rows), nil
}

// FormatAmount renders "$50,000"; nil or zero amounts render empty.
func FormatAmount(amount *float64) string {
	if amount == nil || *amount == 0 {
		return ""
	}
	p := message.NewPrinter(language.English)
	return "$" + p.Sprint(number.Decimal(*amount, number.MaxFractionDigits(2)))
}

// ExportFilename returns e.g. "leads_export_2024-01-15.csv".
func ExportFilename(kind string, at time.Time) string {
	return fmt.Sprintf("%s_export_%s.csv", kind, at.UTC().Format("2006-01-02"))
}

func renderCSV(headers []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, csvLine(headers))
	for _, r := range rows {
		lines = append(lines, csvLine(r))
	}
	return strings.Join(lines, "\n")
}

func csvLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

func formatISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoMillis)
}

type ExportService struct {
	Leads LeadRepo
	Opps  OpportunityRepo
	now   func() time.Time
}

func NewExportService(leads LeadRepo, opps OpportunityRepo) *ExportService {
	return &ExportService{Leads: leads, Opps: opps, now: time.Now}
}

func (s *ExportService) ExportLeads(ctx context.Context) (*Export, error) {
	leads, err := s.Leads.List(ctx)
	if err != nil {
		return nil, err
	}
	content, err := LeadsCSV(leads)
	if err != nil {
		return nil, err
	}
	return &Export{Filename: ExportFilename("leads", s.now()), Content: content}, nil
}

func (s *ExportService) ExportOpportunities(ctx context.Context) (*Export, error) {
	opps, err := s.Opps.List(ctx)
	if err != nil {
		return nil, err
	}
	content, err := OpportunitiesCSV(opps)
	if err != nil {
		return nil, err
	}
	return &Export{Filename: ExportFilename("opportunities", s.now()), Content: content}, nil
}

// WriteFile stores the export under dir and returns the full path.
func (e *Export) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.NewStorage(apperr.CodeExportFailed, "create export dir", err)
	}
	path := filepath.Join(dir, e.Filename)
	if err := os.WriteFile(path, []byte(e.Content), 0o644); err != nil {
		return "", apperr.NewStorage(apperr.CodeExportFailed, "write "+e.Filename, err)
	}
	return path, nil
}
