package storage

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"leadforge/internal/apperr"
	"leadforge/internal/metrics"
	"leadforge/internal/models"
)

const (
	KeyTheme         = "@lead-forge:theme"
	KeyLeadFilters   = "@lead-forge:filters"
	KeyOpportunities = "@lead-forge:opportunities"
	KeyLeads         = "@lead-forge:leads"
	KeyUIState       = "@lead-forge:store"
)

// AllKeys lists every key ClearAll removes.
var AllKeys = []string{KeyLeads, KeyOpportunities, KeyLeadFilters, KeyUIState, KeyTheme}

// Store reads and writes the JSON-serialized collections. Reads never fail:
// a backend error, a missing key or a corrupt payload yields the default value.
type Store struct {
	kv  KV
	log *zap.Logger
}

func NewStore(kv KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, log: log.Named("storage")}
}

func (s *Store) Leads(ctx context.Context) []models.Lead {
	leads := safeGet(ctx, s, KeyLeads, []models.Lead{})
	if leads == nil {
		return []models.Lead{}
	}
	return leads
}

func (s *Store) SetLeads(ctx context.Context, leads []models.Lead) error {
	if leads == nil {
		leads = []models.Lead{}
	}
	return s.safeSet(ctx, KeyLeads, leads)
}

func (s *Store) Opportunities(ctx context.Context) []models.Opportunity {
	opps := safeGet(ctx, s, KeyOpportunities, []models.Opportunity{})
	if opps == nil {
		return []models.Opportunity{}
	}
	return opps
}

func (s *Store) SetOpportunities(ctx context.Context, opps []models.Opportunity) error {
	if opps == nil {
		opps = []models.Opportunity{}
	}
	return s.safeSet(ctx, KeyOpportunities, opps)
}

func (s *Store) LeadFilters(ctx context.Context) models.LeadFilters {
	f := safeGet(ctx, s, KeyLeadFilters, models.DefaultLeadFilters())
	def := models.DefaultLeadFilters()
	switch f.SortBy {
	case models.SortByScore, models.SortByName, models.SortByCompany:
	default:
		f.SortBy = def.SortBy
	}
	if f.SortOrder != models.SortAsc && f.SortOrder != models.SortDesc {
		f.SortOrder = def.SortOrder
	}
	return f
}

func (s *Store) SetLeadFilters(ctx context.Context, f models.LeadFilters) error {
	return s.safeSet(ctx, KeyLeadFilters, f)
}

func (s *Store) UIState(ctx context.Context) models.UIState {
	st := safeGet(ctx, s, KeyUIState, models.DefaultUIState())
	if !st.ActiveTab.Valid() {
		st.ActiveTab = models.TabLeads
	}
	return st
}

func (s *Store) SetUIState(ctx context.Context, st models.UIState) error {
	return s.safeSet(ctx, KeyUIState, st)
}

// Theme is stored as a bare string rather than JSON.
func (s *Store) Theme(ctx context.Context) models.Theme {
	raw, ok, err := s.kv.Get(ctx, KeyTheme)
	if err != nil {
		s.log.Warn("read failed, using default", zap.String("key", KeyTheme), zap.Error(err))
		metrics.RecordStorageFallback(KeyTheme)
		return models.DefaultTheme
	}
	if t := models.Theme(raw); ok && t.Valid() {
		return t
	}
	return models.DefaultTheme
}

func (s *Store) SetTheme(ctx context.Context, t models.Theme) error {
	if err := s.kv.Set(ctx, KeyTheme, string(t)); err != nil {
		s.log.Error("write failed", zap.String("key", KeyTheme), zap.Error(err))
		return apperr.NewStorage(apperr.CodeWriteFailed, "set "+KeyTheme, err)
	}
	return nil
}

func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.kv.Delete(ctx, AllKeys...); err != nil {
		return apperr.NewStorage(apperr.CodeWriteFailed, "clear all", err)
	}
	return nil
}

func safeGet[T any](ctx context.Context, s *Store, key string, fallback T) T {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("read failed, using default", zap.String("key", key), zap.Error(err))
		metrics.RecordStorageFallback(key)
		return fallback
	}
	if !ok || raw == "" {
		return fallback
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.log.Warn("corrupt payload, using default", zap.String("key", key), zap.Error(err))
		metrics.RecordStorageFallback(key)
		return fallback
	}
	return out
}

// safeSet drops values that cannot be serialized; backend failures are returned.
func (s *Store) safeSet(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("serialize failed, write skipped", zap.String("key", key), zap.Error(err))
		return nil
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		s.log.Error("write failed", zap.String("key", key), zap.Error(err))
		return apperr.NewStorage(apperr.CodeWriteFailed, "set "+key, err)
	}
	return nil
}
