package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadforge/internal/models"
	"leadforge/internal/services"
)

func sampleStats() services.Stats {
	amount := 50000.0
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		{ID: "1", Status: models.StatusHot, Source: models.SourceWebsite, Score: 80, CreatedAt: now},
		{ID: "2", Status: models.StatusConverted, Source: models.SourceReferral, Score: 60, CreatedAt: now.AddDate(0, 0, -3)},
	}
	opps := []models.Opportunity{{ID: "o", Stage: models.StageProposal, Amount: &amount, ConvertedAt: now}}
	return services.ComputeStats(leads, opps, now)
}

func TestRenderProducesPDF(t *testing.T) {
	g := NewReportGenerator(t.TempDir(), "")
	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf, sampleStats(), time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderWithEmptyStats(t *testing.T) {
	g := NewReportGenerator(t.TempDir(), "missing/font.ttf")
	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf, services.ComputeStats(nil, nil, time.Now()), time.Now()))
	assert.NotZero(t, buf.Len())
}

func TestGenerateReportWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	g := NewReportGenerator(dir, "")
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	path, err := g.GenerateReport(sampleStats(), at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pipeline_report_2026-10-17.pdf"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
