package services

import (
	"context"

	"leadforge/internal/apperr"
	"leadforge/internal/models"
	"leadforge/internal/state"
)

// SettingsStore is the slice of storage.Store holding view preferences.
type SettingsStore interface {
	LeadFilters(ctx context.Context) models.LeadFilters
	SetLeadFilters(ctx context.Context, f models.LeadFilters) error
	UIState(ctx context.Context) models.UIState
	SetUIState(ctx context.Context, st models.UIState) error
	Theme(ctx context.Context) models.Theme
	SetTheme(ctx context.Context, t models.Theme) error
	ClearAll(ctx context.Context) error
}

type SettingsService struct {
	store SettingsStore
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

func (s *SettingsService) Filters(ctx context.Context) models.LeadFilters {
	return s.store.LeadFilters(ctx)
}

func (s *SettingsService) SaveFilters(ctx context.Context, f models.LeadFilters) (models.LeadFilters, error) {
	def := models.DefaultLeadFilters()
	if f.SortBy == "" {
		f.SortBy = def.SortBy
	}
	if f.SortOrder == "" {
		f.SortOrder = def.SortOrder
	}
	if f.SortBy != models.SortByScore && f.SortBy != models.SortByName && f.SortBy != models.SortByCompany {
		return f, &apperr.ValidationError{
			Message: "Invalid filters",
			Fields:  []apperr.FieldError{{Field: "sortBy", Message: "must be one of: score, name, company"}},
		}
	}
	if f.SortOrder != models.SortAsc && f.SortOrder != models.SortDesc {
		return f, &apperr.ValidationError{
			Message: "Invalid filters",
			Fields:  []apperr.FieldError{{Field: "sortOrder", Message: "must be one of: asc, desc"}},
		}
	}
	if f.Status != "" && !models.LeadStatus(f.Status).Valid() {
		return f, &apperr.ValidationError{
			Message: "Invalid filters",
			Fields:  []apperr.FieldError{{Field: "status", Message: "must be a valid lead status"}},
		}
	}
	return f, s.store.SetLeadFilters(ctx, f)
}

func (s *SettingsService) UI(ctx context.Context) models.UIState {
	return s.store.UIState(ctx)
}

func (s *SettingsService) SaveUI(ctx context.Context, st models.UIState) (models.UIState, error) {
	if !st.ActiveTab.Valid() {
		return st, &apperr.ValidationError{
			Message: "Invalid UI state",
			Fields:  []apperr.FieldError{{Field: "activeTab", Message: "must be one of: leads, opportunities, analytics"}},
		}
	}
	return st, s.store.SetUIState(ctx, st)
}

func (s *SettingsService) Theme(ctx context.Context) models.Theme {
	return s.store.Theme(ctx)
}

func (s *SettingsService) SaveTheme(ctx context.Context, t models.Theme) error {
	if !t.Valid() {
		return &apperr.ValidationError{
			Message: "Invalid theme",
			Fields:  []apperr.FieldError{{Field: "theme", Message: "must be one of: light, dark, system"}},
		}
	}
	return s.store.SetTheme(ctx, t)
}

// Dispatch applies a to the persisted view state. Page and page size are
// not persisted; callers pass the ones they hold.
func (s *SettingsService) Dispatch(ctx context.Context, page, pageSize int, a state.Action) (state.State, error) {
	cur := state.Initial()
	cur.UI = s.store.UIState(ctx)
	cur.Filters = s.store.LeadFilters(ctx)
	if page > 0 {
		cur.Page = page
	}
	if pageSize > 0 {
		cur.PageSize = pageSize
	}

	next, err := state.Reduce(cur, a)
	if err != nil {
		return cur, apperr.NewValidation(err.Error())
	}
	if next.UI != cur.UI {
		if err := s.store.SetUIState(ctx, next.UI); err != nil {
			return cur, err
		}
	}
	if next.Filters != cur.Filters {
		if err := s.store.SetLeadFilters(ctx, next.Filters); err != nil {
			return cur, err
		}
	}
	return next, nil
}

// ClearAll removes every persisted key.
func (s *SettingsService) ClearAll(ctx context.Context) error {
	return s.store.ClearAll(ctx)
}
