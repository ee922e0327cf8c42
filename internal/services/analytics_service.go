package services

import (
	"context"
	"strconv"
	"time"

	"leadforge/internal/models"
	"leadforge/internal/utils"
)

// RecentActivityDays bounds the age of a lead counted as recent activity.
const RecentActivityDays = 7

type ConversionFunnel struct {
	TotalLeads               int     `json:"totalLeads"`
	QualifiedLeads           int     `json:"qualifiedLeads"`
	HotLeads                 int     `json:"hotLeads"`
	ConvertedToOpportunities int     `json:"convertedToOpportunities"`
	ConversionRate           float64 `json:"conversionRate"`
}

// Stats is derived on every request and never persisted.
type Stats struct {
	TotalLeads             int                `json:"totalLeads"`
	NewLeads               int                `json:"newLeads"`
	QualifiedLeads         int                `json:"qualifiedLeads"`
	HotLeads               int                `json:"hotLeads"`
	ConvertedLeads         int                `json:"convertedLeads"`
	TotalOpportunities     int                `json:"totalOpportunities"`
	TotalValue             float64            `json:"totalValue"`
	ConversionRate         float64            `json:"conversionRate"`
	LeadsByStatus          map[string]int     `json:"leadsByStatus"`
	LeadsBySource          map[string]int     `json:"leadsBySource"`
	PipelineByStage        map[string]int     `json:"pipelineByStage"`
	PipelineValueByStage   map[string]float64 `json:"pipelineValueByStage"`
	AvgScore               float64            `json:"avgScore"`
	LeadsToday             int                `json:"leadsToday"`
	LeadsThisWeek          int                `json:"leadsThisWeek"`
	LeadsThisMonth         int                `json:"leadsThisMonth"`
	OpportunitiesThisMonth int                `json:"opportunitiesThisMonth"`
	AvgLeadAge             float64            `json:"avgLeadAge"`
	RecentActivity         int                `json:"recentActivity"`
	ConversionFunnel       ConversionFunnel   `json:"conversionFunnel"`
}

// ComputeStats aggregates both collections relative to now.
func ComputeStats(leads []models.Lead, opps []models.Opportunity, now time.Time) Stats {
	st := Stats{
		TotalLeads:           len(leads),
		TotalOpportunities:   len(opps),
		LeadsByStatus:        map[string]int{},
		LeadsBySource:        map[string]int{},
		PipelineByStage:      map[string]int{},
		PipelineValueByStage: map[string]float64{},
	}

	scoreSum, ageSum := 0, 0
	for _, l := range leads {
		switch l.Status {
		case models.StatusNew:
			st.NewLeads++
		case models.StatusQualified:
			st.QualifiedLeads++
		case models.StatusHot:
			st.HotLeads++
		case models.StatusConverted:
			st.ConvertedLeads++
		}
		st.LeadsByStatus[string(l.Status)]++
		st.LeadsBySource[string(l.Source)]++
		scoreSum += l.Score

		if utils.IsToday(l.CreatedAt, now) {
			st.LeadsToday++
		}
		if utils.IsThisWeek(l.CreatedAt, now) {
			st.LeadsThisWeek++
		}
		if utils.IsThisMonth(l.CreatedAt, now) {
			st.LeadsThisMonth++
		}
		age := utils.DaysBetween(l.CreatedAt, now)
		ageSum += age
		if age <= RecentActivityDays {
			st.RecentActivity++
		}
	}

	for _, o := range opps {
		amount := o.AmountValue()
		st.TotalValue += amount
		st.PipelineByStage[string(o.Stage)]++
		st.PipelineValueByStage[string(o.Stage)] += amount
		if utils.IsThisMonth(o.ConvertedAt, now) {
			st.OpportunitiesThisMonth++
		}
	}

	if st.TotalLeads > 0 {
		n := float64(st.TotalLeads)
		st.ConversionRate = float64(st.TotalOpportunities) / n * 100
		st.AvgScore = float64(scoreSum) / n
		st.AvgLeadAge = float64(ageSum) / n
	}
	st.ConversionFunnel = ConversionFunnel{
		TotalLeads:               st.TotalLeads,
		QualifiedLeads:           st.QualifiedLeads,
		HotLeads:                 st.HotLeads,
		ConvertedToOpportunities: st.TotalOpportunities,
		ConversionRate:           st.ConversionRate,
	}
	return st
}

// FormatPercent renders a percentage with one decimal, e.g. "33.3%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// Share returns part as a percentage of whole, 0 when whole is 0.
func Share(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

type AnalyticsService struct {
	Leads LeadRepo
	Opps  OpportunityRepo
	now   func() time.Time
}

func NewAnalyticsService(leads LeadRepo, opps OpportunityRepo) *AnalyticsService {
	return &AnalyticsService{Leads: leads, Opps: opps, now: time.Now}
}

func (s *AnalyticsService) Summary(ctx context.Context) (Stats, error) {
	leads, err := s.Leads.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	opps, err := s.Opps.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(leads, opps, s.now()), nil
}
