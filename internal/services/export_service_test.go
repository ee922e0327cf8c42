package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadforge/internal/apperr"
	"leadforge/internal/models"
)

func TestLeadsCSVEmptyIsError(t *testing.T) {
	_, err := LeadsCSV(nil)
	code, ok := apperr.StorageCodeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeEmptyData, code)

	_, err = OpportunitiesCSV([]models.Opportunity{})
	code, _ = apperr.StorageCodeOf(err)
	assert.Equal(t, apperr.CodeEmptyData, code)
}

func TestLeadsCSV(t *testing.T) {
	created := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	leads := []models.Lead{
		{ID: "L1", Name: "Jane", Company: `Acme "West"`, Email: "jane@acme.io", Source: models.SourceColdCall, Score: 80, Status: models.StatusHot, CreatedAt: created},
		{ID: "L2", Name: "Bob", Company: "Beta, Inc", Email: "bob@beta.io", Source: models.SourceWebsite, Score: 5, Status: models.StatusNew, CreatedAt: created, LastContacted: &created},
	}

	out, err := LeadsCSV(leads)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"ID","Name","Company","Email","Source","Score","Status","Created At","Last Contacted"`, lines[0])
	assert.Equal(t, `"L1","Jane","Acme ""West""","jane@acme.io","Cold Call","80","Hot","2026-01-15T10:30:00.000Z",""`, lines[1])
	assert.Equal(t, `"L2","Bob","Beta, Inc","bob@beta.io","Website","5","New","2026-01-15T10:30:00.000Z","2026-01-15T10:30:00.000Z"`, lines[2])
}

func TestOpportunitiesCSV(t *testing.T) {
	at := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	opps := []models.Opportunity{
		{ID: "O1", Name: "Jane", Stage: models.StageClosedWon, Amount: ptr(50000.0), AccountName: "Acme", ConvertedFrom: "L1", ConvertedAt: at},
		{ID: "O2", Name: "Bob", Stage: models.StageProposal, AccountName: "Beta", ConvertedFrom: "L2", ConvertedAt: at},
	}
	out, err := OpportunitiesCSV(opps)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"ID","Name","Stage","Amount","Account Name","Converted From Lead","Converted At"`, lines[0])
	assert.Equal(t, `"O1","Jane","Closed Won","$50,000","Acme","L1","2026-02-01T08:00:00.000Z"`, lines[1])
	assert.Equal(t, `"O2","Bob","Proposal","","Beta","L2","2026-02-01T08:00:00.000Z"`, lines[2])
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "", FormatAmount(nil))
	assert.Equal(t, "$1,234,567", FormatAmount(ptr(1234567.0)))
	assert.Equal(t, "$999.5", FormatAmount(ptr(999.5)))
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "leads_export_2026-03-09.csv", ExportFilename("leads", at))
	assert.Equal(t, "opportunities_export_2026-03-09.csv", ExportFilename("opportunities", at))
}

func TestExportServiceWritesFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewExportService(env.leads, env.opps)

	_, err := svc.ExportLeads(ctx)
	assert.True(t, isEmptyData(err))

	_, err = env.lead.Create(ctx, validLeadRequest())
	require.NoError(t, err)
	exp, err := svc.ExportLeads(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(exp.Filename, "leads_export_"))

	dir := t.TempDir()
	path, err := exp.WriteFile(filepath.Join(dir, "exports"))
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, exp.Content, string(b))
}

func isEmptyData(err error) bool {
	code, ok := apperr.StorageCodeOf(err)
	return ok && code == apperr.CodeEmptyData
}
