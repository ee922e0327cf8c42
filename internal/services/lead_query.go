package services

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"leadforge/internal/models"
)

const DefaultPageSize = 10

const (
	emptyNoLeads   = "No leads found"
	emptyNoMatches = "No leads match your search criteria"
)

// LeadQuery is one request against the leads table.
type LeadQuery struct {
	Search    string
	Status    string
	SortBy    models.SortField
	SortOrder models.SortOrder
	Page      int
	PageSize  int
}

// QueryFromFilters builds a query from persisted filters.
func QueryFromFilters(f models.LeadFilters, page, pageSize int) LeadQuery {
	return LeadQuery{
		Search:    f.Search,
		Status:    f.Status,
		SortBy:    f.SortBy,
		SortOrder: f.SortOrder,
		Page:      page,
		PageSize:  pageSize,
	}
}

type LeadPage struct {
	Items        []models.Lead `json:"items"`
	Total        int           `json:"total"`
	Unfiltered   int           `json:"unfiltered"`
	TotalPages   int           `json:"totalPages"`
	Page         int           `json:"page"`
	PageSize     int           `json:"pageSize"`
	From         int           `json:"from"`
	To           int           `json:"to"`
	EmptyMessage string        `json:"emptyMessage,omitempty"`
}

// QueryLeads filters, sorts and paginates leads. The input slice is not modified.
func QueryLeads(leads []models.Lead, q LeadQuery) LeadPage {
	filtered := FilterLeads(leads, q.Search, q.Status)
	SortLeads(filtered, q.SortBy, q.SortOrder)

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(filtered)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	out := LeadPage{
		Items:      filtered[start:end],
		Total:      total,
		Unfiltered: len(leads),
		TotalPages: totalPages,
		Page:       page,
		PageSize:   size,
	}
	if total > 0 {
		out.From = start + 1
		out.To = end
	}
	switch {
	case len(leads) == 0:
		out.EmptyMessage = emptyNoLeads
	case total == 0:
		out.EmptyMessage = emptyNoMatches
	}
	return out
}

// FilterLeads keeps leads whose name or company contains search
// (case-insensitive) and whose status equals status. Empty criteria match all.
func FilterLeads(leads []models.Lead, search, status string) []models.Lead {
	needle := strings.ToLower(search)
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if needle != "" &&
			!strings.Contains(strings.ToLower(l.Name), needle) &&
			!strings.Contains(strings.ToLower(l.Company), needle) {
			continue
		}
		if status != "" && string(l.Status) != status {
			continue
		}
		out = append(out, l)
	}
	return out
}

// SortLeads sorts in place. Ties keep their input order.
func SortLeads(leads []models.Lead, by models.SortField, order models.SortOrder) {
	desc := order == models.SortDesc
	var less func(a, b models.Lead) int
	switch by {
	case models.SortByName, models.SortByCompany:
		col := collate.New(language.English)
		key := func(l models.Lead) string {
			if by == models.SortByName {
				return strings.ToLower(l.Name)
			}
			return strings.ToLower(l.Company)
		}
		less = func(a, b models.Lead) int { return col.CompareString(key(a), key(b)) }
	default:
		less = func(a, b models.Lead) int { return a.Score - b.Score }
	}
	sort.SliceStable(leads, func(i, j int) bool {
		c := less(leads[i], leads[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

