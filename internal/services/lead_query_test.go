package services

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadforge/internal/models"
)

func sampleLeads() []models.Lead {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	names := []string{"alice", "Bob", "carol", "Dave", "erin", "Frank", "grace", "Heidi", "ivan", "Judy", "mallory", "Niaj"}
	companies := []string{"Zeta", "acme", "Beta", "delta", "Acme Labs", "omega", "Gamma", "epsilon", "Iota", "kappa", "Lambda", "mu"}
	out := make([]models.Lead, 0, len(names))
	for i, n := range names {
		out = append(out, models.Lead{
			ID:        fmt.Sprintf("lead_%03d", i+1),
			Name:      n,
			Company:   companies[i],
			Email:     n + "@example.com",
			Source:    models.LeadSources[i%len(models.LeadSources)],
			Score:     40 + i*5,
			Status:    models.LeadStatuses[i%len(models.LeadStatuses)],
			CreatedAt: base.AddDate(0, 0, i),
		})
	}
	return out
}

func ids(leads []models.Lead) []string {
	out := make([]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.ID)
	}
	return out
}

func TestFilterByStatusReturnsExactSubset(t *testing.T) {
	leads := sampleLeads()
	for _, status := range models.LeadStatuses {
		t.Run(string(status), func(t *testing.T) {
			var want []string
			for _, l := range leads {
				if l.Status == status {
					want = append(want, l.ID)
				}
			}
			got := FilterLeads(leads, "", string(status))
			assert.ElementsMatch(t, want, ids(got))
		})
	}
}

func TestFilterWithEmptyCriteriaKeepsMembership(t *testing.T) {
	leads := sampleLeads()
	page := QueryLeads(leads, LeadQuery{PageSize: 1000})
	assert.ElementsMatch(t, ids(leads), ids(page.Items))
	assert.Empty(t, page.EmptyMessage)
}

func TestFilterSearchIsCaseInsensitiveOnNameOrCompany(t *testing.T) {
	leads := sampleLeads()
	got := FilterLeads(leads, "ACME", "")
	assert.ElementsMatch(t, []string{"lead_002", "lead_005"}, ids(got))

	got = FilterLeads(leads, "ali", "")
	assert.Equal(t, []string{"lead_001"}, ids(got))

	got = FilterLeads(leads, "acme", string(models.StatusQualified))
	assert.Equal(t, []string{"lead_002"}, ids(got))
}

func TestSortScoreAscIsReverseOfDesc(t *testing.T) {
	asc := append([]models.Lead(nil), sampleLeads()...)
	desc := append([]models.Lead(nil), sampleLeads()...)
	SortLeads(asc, models.SortByScore, models.SortAsc)
	SortLeads(desc, models.SortByScore, models.SortDesc)

	reversed := ids(desc)
	slices.Reverse(reversed)
	assert.Equal(t, ids(asc), reversed)
	assert.Equal(t, 40, asc[0].Score)
}

func TestSortByNameIgnoresCase(t *testing.T) {
	leads := sampleLeads()
	SortLeads(leads, models.SortByName, models.SortAsc)
	assert.Equal(t, []string{"alice", "Bob", "carol", "Dave"}, []string{leads[0].Name, leads[1].Name, leads[2].Name, leads[3].Name})

	SortLeads(leads, models.SortByCompany, models.SortDesc)
	assert.Equal(t, "Zeta", leads[0].Company)
}

func TestSortIsStableForTies(t *testing.T) {
	leads := []models.Lead{
		{ID: "a", Score: 50}, {ID: "b", Score: 70}, {ID: "c", Score: 50}, {ID: "d", Score: 70},
	}
	SortLeads(leads, models.SortByScore, models.SortDesc)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(leads))
}

func TestUnknownSortFieldFallsBackToScore(t *testing.T) {
	leads := sampleLeads()
	SortLeads(leads, "email", models.SortAsc)
	assert.True(t, slices.IsSortedFunc(leads, func(a, b models.Lead) int { return a.Score - b.Score }))
}

func TestPagesReconstructFilteredSet(t *testing.T) {
	leads := sampleLeads()
	for _, size := range []int{1, 5, 10, 20} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			q := LeadQuery{SortBy: models.SortByName, SortOrder: models.SortAsc, PageSize: size}
			first := QueryLeads(leads, q)

			var all []string
			for p := 1; p <= first.TotalPages; p++ {
				q.Page = p
				page := QueryLeads(leads, q)
				assert.Equal(t, p, page.Page)
				assert.LessOrEqual(t, len(page.Items), size)
				all = append(all, ids(page.Items)...)
			}

			full := QueryLeads(leads, LeadQuery{SortBy: models.SortByName, SortOrder: models.SortAsc, PageSize: len(leads)})
			assert.Equal(t, ids(full.Items), all)
		})
	}
}

func TestPaginationBounds(t *testing.T) {
	leads := sampleLeads()

	page := QueryLeads(leads, LeadQuery{Page: 99, PageSize: 5})
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 11, page.From)
	assert.Equal(t, 12, page.To)

	page = QueryLeads(leads, LeadQuery{Page: -1})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.Equal(t, 1, page.From)
	assert.Equal(t, 10, page.To)
}

func TestQueryEmptyMessages(t *testing.T) {
	page := QueryLeads(nil, LeadQuery{})
	assert.Equal(t, "No leads found", page.EmptyMessage)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.From)
	require.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	page = QueryLeads(sampleLeads(), LeadQuery{Search: "nobody"})
	assert.Equal(t, "No leads match your search criteria", page.EmptyMessage)
	assert.Equal(t, 12, page.Unfiltered)
	assert.Equal(t, 0, page.Total)
}

func TestQueryDoesNotReorderInput(t *testing.T) {
	leads := sampleLeads()
	before := ids(leads)
	QueryLeads(leads, LeadQuery{SortBy: models.SortByName, SortOrder: models.SortDesc})
	assert.Equal(t, before, ids(leads))
}
