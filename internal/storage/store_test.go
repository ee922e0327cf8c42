package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"leadforge/internal/apperr"
	"leadforge/internal/models"
)

type failingKV struct {
	getErr error
	setErr error
	delErr error
}

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.getErr }
func (f failingKV) Set(context.Context, string, string) error         { return f.setErr }
func (f failingKV) Delete(context.Context, ...string) error           { return f.delErr }

func TestStoreDefaultsWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryKV(), zaptest.NewLogger(t))

	assert.NotNil(t, s.Leads(ctx))
	assert.Empty(t, s.Leads(ctx))
	assert.NotNil(t, s.Opportunities(ctx))
	assert.Equal(t, models.DefaultLeadFilters(), s.LeadFilters(ctx))
	assert.Equal(t, models.DefaultUIState(), s.UIState(ctx))
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryKV(), zaptest.NewLogger(t))
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	amount := 5000.0

	require.NoError(t, s.SetLeads(ctx, []models.Lead{{ID: "L1", Name: "Jane", Company: "Acme", Score: 80, Status: models.StatusHot, CreatedAt: created}}))
	require.NoError(t, s.SetOpportunities(ctx, []models.Opportunity{{ID: "O1", Name: "Jane", Stage: models.StageProspecting, Amount: &amount, ConvertedFrom: "L1"}}))
	require.NoError(t, s.SetLeadFilters(ctx, models.LeadFilters{Search: "ac", SortBy: models.SortByName, SortOrder: models.SortAsc}))
	require.NoError(t, s.SetUIState(ctx, models.UIState{ActiveTab: models.TabAnalytics}))

	leads := s.Leads(ctx)
	require.Len(t, leads, 1)
	assert.Equal(t, "Acme", leads[0].Company)
	assert.True(t, leads[0].CreatedAt.Equal(created))

	opps := s.Opportunities(ctx)
	require.Len(t, opps, 1)
	assert.Equal(t, 5000.0, opps[0].AmountValue())

	assert.Equal(t, "ac", s.LeadFilters(ctx).Search)
	assert.Equal(t, models.SortByName, s.LeadFilters(ctx).SortBy)
	assert.Equal(t, models.TabAnalytics, s.UIState(ctx).ActiveTab)
	assert.False(t, s.UIState(ctx).ShortcutsEnabled)
}

func TestStoreSwallowsReadFailures(t *testing.T) {
	ctx := context.Background()
	s := NewStore(failingKV{getErr: errors.New("connection refused")}, zaptest.NewLogger(t))

	assert.Empty(t, s.Leads(ctx))
	assert.Empty(t, s.Opportunities(ctx))
	assert.Equal(t, models.DefaultLeadFilters(), s.LeadFilters(ctx))
	assert.Equal(t, models.DefaultUIState(), s.UIState(ctx))
}

func TestStoreSwallowsCorruptPayloads(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyLeads, "{not json"))
	require.NoError(t, kv.Set(ctx, KeyOpportunities, "null"))
	require.NoError(t, kv.Set(ctx, KeyLeadFilters, `{"search":"x","sortBy":"email","sortOrder":"sideways"}`))
	require.NoError(t, kv.Set(ctx, KeyUIState, `{"activeTab":"settings"}`))
	s := NewStore(kv, zaptest.NewLogger(t))

	assert.Empty(t, s.Leads(ctx))
	assert.NotNil(t, s.Opportunities(ctx))

	f := s.LeadFilters(ctx)
	assert.Equal(t, "x", f.Search)
	assert.Equal(t, models.SortByScore, f.SortBy)
	assert.Equal(t, models.SortDesc, f.SortOrder)

	assert.Equal(t, models.TabLeads, s.UIState(ctx).ActiveTab)
}

func TestStoreWriteFailureIsStorageError(t *testing.T) {
	s := NewStore(failingKV{setErr: errors.New("read-only replica")}, zaptest.NewLogger(t))

	err := s.SetLeads(context.Background(), nil)
	code, ok := apperr.StorageCodeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeWriteFailed, code)
}

func TestStoreClearAll(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewStore(kv, zaptest.NewLogger(t))
	require.NoError(t, s.SetLeads(ctx, []models.Lead{{ID: "L1"}}))
	require.NoError(t, kv.Set(ctx, KeyTheme, `"dark"`))
	require.NoError(t, kv.Set(ctx, "unrelated", "keep"))

	require.NoError(t, s.ClearAll(ctx))

	assert.Empty(t, s.Leads(ctx))
	_, ok, _ := kv.Get(ctx, KeyTheme)
	assert.False(t, ok)
	v, ok, _ := kv.Get(ctx, "unrelated")
	assert.True(t, ok)
	assert.Equal(t, "keep", v)

	err := NewStore(failingKV{delErr: errors.New("boom")}, nil).ClearAll(ctx)
	assert.Error(t, err)
}

func TestStoreThemeIsBareString(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewStore(kv, zaptest.NewLogger(t))

	assert.Equal(t, models.ThemeLight, s.Theme(ctx))
	require.NoError(t, s.SetTheme(ctx, models.ThemeDark))
	raw, ok, err := kv.Get(ctx, KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", raw)
	assert.Equal(t, models.ThemeDark, s.Theme(ctx))

	require.NoError(t, kv.Set(ctx, KeyTheme, "neon"))
	assert.Equal(t, models.ThemeLight, s.Theme(ctx))
}
