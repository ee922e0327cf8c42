package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"leadforge/internal/apperr"
	"leadforge/internal/models"
	"leadforge/internal/storage"
)

type OpportunityRepository struct {
	store   *storage.Store
	latency Latency
	now     func() time.Time
	mu      sync.Mutex
}

func NewOpportunityRepository(store *storage.Store, latency Latency) *OpportunityRepository {
	return &OpportunityRepository{store: store, latency: latency, now: time.Now}
}

func (r *OpportunityRepository) List(ctx context.Context) ([]models.Opportunity, error) {
	if err := r.latency.wait(ctx, delayList); err != nil {
		return nil, err
	}
	return r.store.Opportunities(ctx), nil
}

func (r *OpportunityRepository) GetByID(ctx context.Context, id string) (*models.Opportunity, error) {
	if err := r.latency.wait(ctx, delayGet); err != nil {
		return nil, err
	}
	for _, o := range r.store.Opportunities(ctx) {
		if o.ID == id {
			opp := o
			return &opp, nil
		}
	}
	return nil, nil
}

// GetByLeadID returns the opportunity converted from leadID, or nil.
func (r *OpportunityRepository) GetByLeadID(ctx context.Context, leadID string) (*models.Opportunity, error) {
	if err := r.latency.wait(ctx, delayGet); err != nil {
		return nil, err
	}
	for _, o := range r.store.Opportunities(ctx) {
		if o.ConvertedFrom == leadID {
			opp := o
			return &opp, nil
		}
	}
	return nil, nil
}

func (r *OpportunityRepository) Create(ctx context.Context, opp *models.Opportunity) error {
	if err := r.latency.wait(ctx, delayCreate); err != nil {
		return err
	}
	if opp.ID == "" {
		opp.ID = "opp_" + uuid.NewString()
	}
	if opp.ConvertedAt.IsZero() {
		opp.ConvertedAt = r.now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	opps := r.store.Opportunities(ctx)
	opps = append(opps, *opp)
	return r.store.SetOpportunities(ctx, opps)
}

func (r *OpportunityRepository) Update(ctx context.Context, id string, patch models.UpdateOpportunityRequest) (*models.Opportunity, error) {
	if err := r.latency.wait(ctx, delayUpdate); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	opps := r.store.Opportunities(ctx)
	idx := indexOfOpportunity(opps, id)
	if idx < 0 {
		return nil, apperr.NewNotFound("opportunity", id)
	}
	patch.Apply(&opps[idx])
	if err := r.store.SetOpportunities(ctx, opps); err != nil {
		return nil, err
	}
	out := opps[idx]
	return &out, nil
}

func (r *OpportunityRepository) Delete(ctx context.Context, id string) error {
	if err := r.latency.wait(ctx, delayDelete); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	opps := r.store.Opportunities(ctx)
	idx := indexOfOpportunity(opps, id)
	if idx < 0 {
		return apperr.NewNotFound("opportunity", id)
	}
	opps = append(opps[:idx], opps[idx+1:]...)
	return r.store.SetOpportunities(ctx, opps)
}

func (r *OpportunityRepository) ReplaceAll(ctx context.Context, opps []models.Opportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.SetOpportunities(ctx, opps)
}

func indexOfOpportunity(opps []models.Opportunity, id string) int {
	for i := range opps {
		if opps[i].ID == id {
			return i
		}
	}
	return -1
}
