// Package state holds the dashboard view state and the pure reducer that
// applies user actions to it.
package state

import (
	"fmt"

	"leadforge/internal/models"
)

type State struct {
	UI       models.UIState     `json:"ui"`
	Filters  models.LeadFilters `json:"filters"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

const defaultPageSize = 10

func Initial() State {
	return State{
		UI:       models.DefaultUIState(),
		Filters:  models.DefaultLeadFilters(),
		Page:     1,
		PageSize: defaultPageSize,
	}
}

type ActionType string

const (
	SetActiveTab    ActionType = "setActiveTab"
	ToggleShortcuts ActionType = "toggleShortcuts"
	SetShortcuts    ActionType = "setShortcuts"
	UpdateFilters   ActionType = "updateFilters"
	ResetFilters    ActionType = "resetFilters"
	SetPage         ActionType = "setPage"
	SetPageSize     ActionType = "setPageSize"
	SortBy          ActionType = "sortBy"
)

// Action is a user intent. Only the payload fields its Type reads are used.
type Action struct {
	Type      ActionType        `json:"type" binding:"required"`
	Tab       models.Tab        `json:"tab,omitempty"`
	Enabled   *bool             `json:"enabled,omitempty"`
	Search    *string           `json:"search,omitempty"`
	Status    *string           `json:"status,omitempty"`
	SortField models.SortField  `json:"sortField,omitempty"`
	SortOrder *models.SortOrder `json:"sortOrder,omitempty"`
	Page      int               `json:"page,omitempty"`
	PageSize  int               `json:"pageSize,omitempty"`
}

// Reduce returns the state after a. Unknown or malformed actions return an
// error and leave s untouched.
func Reduce(cur State, a Action) (State, error) {
	s := cur
	switch a.Type {
	case SetActiveTab:
		if !a.Tab.Valid() {
			return cur, fmt.Errorf("unknown tab %q", a.Tab)
		}
		s.UI.ActiveTab = a.Tab
	case ToggleShortcuts:
		s.UI.ShortcutsEnabled = !s.UI.ShortcutsEnabled
	case SetShortcuts:
		if a.Enabled == nil {
			return cur, fmt.Errorf("%s needs enabled", a.Type)
		}
		s.UI.ShortcutsEnabled = *a.Enabled
	case UpdateFilters:
		if a.Search != nil {
			s.Filters.Search = *a.Search
		}
		if a.Status != nil {
			s.Filters.Status = *a.Status
		}
		if a.SortField != "" {
			if !validSortField(a.SortField) {
				return cur, fmt.Errorf("unknown sort field %q", a.SortField)
			}
			s.Filters.SortBy = a.SortField
		}
		if a.SortOrder != nil {
			if *a.SortOrder != models.SortAsc && *a.SortOrder != models.SortDesc {
				return cur, fmt.Errorf("unknown sort order %q", *a.SortOrder)
			}
			s.Filters.SortOrder = *a.SortOrder
		}
		s.Page = 1
	case ResetFilters:
		s.Filters = models.DefaultLeadFilters()
		s.Page = 1
	case SetPage:
		if a.Page < 1 {
			return cur, fmt.Errorf("page must be positive")
		}
		s.Page = a.Page
	case SetPageSize:
		if a.PageSize < 1 {
			return cur, fmt.Errorf("page size must be positive")
		}
		s.PageSize = a.PageSize
		s.Page = 1
	case SortBy:
		if !validSortField(a.SortField) {
			return cur, fmt.Errorf("unknown sort field %q", a.SortField)
		}
		s.Filters.SortBy, s.Filters.SortOrder = nextSort(s.Filters.SortBy, s.Filters.SortOrder, a.SortField)
		s.Page = 1
	default:
		return cur, fmt.Errorf("unknown action %q", a.Type)
	}
	return s, nil
}

func validSortField(f models.SortField) bool {
	return f == models.SortByScore || f == models.SortByName || f == models.SortByCompany
}

// a header click on the column already sorted ascending flips it; anything else sorts ascending
func nextSort(by models.SortField, order models.SortOrder, clicked models.SortField) (models.SortField, models.SortOrder) {
	if clicked == by && order == models.SortAsc {
		return clicked, models.SortDesc
	}
	return clicked, models.SortAsc
}
