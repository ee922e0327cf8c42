package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"leadforge/internal/models"
)

// SeedTarget is the number of leads a seeded store holds.
const SeedTarget = 100

type SeedResult struct {
	LeadsAdded         int `json:"leadsAdded"`
	OpportunitiesAdded int `json:"opportunitiesAdded"`
}

// DataSeeder fills an empty or sparse store with demo data.
type DataSeeder struct {
	Leads LeadRepo
	Opps  OpportunityRepo
	log   *zap.Logger
	now   func() time.Time

	// mu serialises Seed runs and guards rnd.
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewDataSeeder(leads LeadRepo, opps OpportunityRepo, log *zap.Logger) *DataSeeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &DataSeeder{
		Leads: leads,
		Opps:  opps,
		log:   log.Named("seeder"),
		rnd:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		now:   time.Now,
	}
}

// Seed tops the lead collection up to SeedTarget, keeping existing leads,
// and adds sample opportunities when there are none.
func (s *DataSeeder) Seed(ctx context.Context) (SeedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res SeedResult
	existing, err := s.Leads.List(ctx)
	if err != nil {
		return res, err
	}
	if len(existing) >= SeedTarget {
		return res, nil
	}

	ids := make(map[string]bool, len(existing))
	for _, l := range existing {
		ids[l.ID] = true
	}
	all := append([]models.Lead(nil), existing...)
	for i := 1; len(all) < SeedTarget; i++ {
		l := s.generateLead(i)
		if ids[l.ID] {
			continue
		}
		ids[l.ID] = true
		all = append(all, l)
		res.LeadsAdded++
	}
	if err := s.Leads.ReplaceAll(ctx, all); err != nil {
		return res, err
	}

	opps, err := s.Opps.List(ctx)
	if err != nil {
		return res, err
	}
	if len(opps) == 0 {
		samples := s.sampleOpportunities(all)
		if err := s.Opps.ReplaceAll(ctx, samples); err != nil {
			return res, err
		}
		res.OpportunitiesAdded = len(samples)
	}
	s.log.Info("store seeded",
		zap.Int("leads_added", res.LeadsAdded),
		zap.Int("opportunities_added", res.OpportunitiesAdded))
	return res, nil
}

func (s *DataSeeder) generateLead(i int) models.Lead {
	created := s.randomWithin(60)
	last := created
	if s.rnd.Float64() > 0.5 {
		last = s.randomWithin(45)
	}
	l := models.Lead{
		ID:            fmt.Sprintf("lead_%03d", i),
		Name:          fmt.Sprintf("Lead %d", i),
		Company:       fmt.Sprintf("Company %d", i),
		Email:         fmt.Sprintf("lead%d@example.com", i),
		Source:        models.LeadSources[i%len(models.LeadSources)],
		Score:         50 + (i*7)%51,
		Status:        models.LeadStatuses[i%len(models.LeadStatuses)],
		CreatedAt:     created,
		LastContacted: &last,
	}
	if l.Status == models.StatusConverted {
		at := created
		l.ConvertedAt = &at
	}
	return l
}

func (s *DataSeeder) sampleOpportunities(leads []models.Lead) []models.Opportunity {
	now := s.now().UTC()
	var converted []models.Lead
	for _, l := range leads {
		if l.IsConverted() {
			converted = append(converted, l)
		}
	}
	if len(converted) == 0 {
		return []models.Opportunity{
			{
				ID: "opp_sample_1", Name: "Sample Opportunity 1", Stage: models.StageProspecting,
				Amount: amountPtr(50000), AccountName: "Sample Company 1",
				ConvertedFrom: "sample_lead_1", ConvertedAt: now.AddDate(0, 0, -30),
			},
			{
				ID: "opp_sample_2", Name: "Sample Opportunity 2", Stage: models.StageQualification,
				Amount: amountPtr(75000), AccountName: "Sample Company 2",
				ConvertedFrom: "sample_lead_2", ConvertedAt: now.AddDate(0, 0, -15),
			},
		}
	}
	if len(converted) > 5 {
		converted = converted[:5]
	}
	out := make([]models.Opportunity, 0, len(converted))
	for i, l := range converted {
		out = append(out, models.Opportunity{
			ID:            "opp_" + l.ID,
			Name:          l.Name + " - Opportunity",
			Stage:         models.StageProspecting,
			Amount:        amountPtr(float64(25000 + i*10000)),
			AccountName:   l.Company,
			ConvertedFrom: l.ID,
			ConvertedAt:   now,
		})
	}
	return out
}

func (s *DataSeeder) randomWithin(days int) time.Time {
	span := time.Duration(days) * 24 * time.Hour
	return s.now().UTC().Add(-time.Duration(s.rnd.Int64N(int64(span))))
}

func amountPtr(v float64) *float64 { return &v }
