package models

type SortField string

const (
	SortByScore   SortField = "score"
	SortByName    SortField = "name"
	SortByCompany SortField = "company"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// LeadFilters is the leads-table query state cached between sessions.
type LeadFilters struct {
	Search    string    `json:"search"`
	Status    string    `json:"status"`
	SortBy    SortField `json:"sortBy" validate:"omitempty,oneof=score name company"`
	SortOrder SortOrder `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func DefaultLeadFilters() LeadFilters {
	return LeadFilters{SortBy: SortByScore, SortOrder: SortDesc}
}
