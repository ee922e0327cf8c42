package services

import (
	"context"
	"time"

	"leadforge/internal/models"
)

// LeadRepo is the persistence the lead use cases depend on.
type LeadRepo interface {
	List(ctx context.Context) ([]models.Lead, error)
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	Create(ctx context.Context, lead *models.Lead) error
	Update(ctx context.Context, id string, patch models.UpdateLeadRequest) (*models.Lead, error)
	Delete(ctx context.Context, id string) error
	MarkConverted(ctx context.Context, id string, at time.Time) (*models.Lead, error)
	RestoreStatus(ctx context.Context, id string, status models.LeadStatus) error
	ReplaceAll(ctx context.Context, leads []models.Lead) error
}

type OpportunityRepo interface {
	List(ctx context.Context) ([]models.Opportunity, error)
	GetByID(ctx context.Context, id string) (*models.Opportunity, error)
	GetByLeadID(ctx context.Context, leadID string) (*models.Opportunity, error)
	Create(ctx context.Context, opp *models.Opportunity) error
	Update(ctx context.Context, id string, patch models.UpdateOpportunityRequest) (*models.Opportunity, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, opps []models.Opportunity) error
}
