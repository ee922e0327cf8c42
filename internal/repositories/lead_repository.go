package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"leadforge/internal/apperr"
	"leadforge/internal/models"
	"leadforge/internal/storage"
)

type LeadRepository struct {
	store   *storage.Store
	latency Latency
	now     func() time.Time

	// serialises read-modify-write cycles on the leads collection
	mu sync.Mutex
}

func NewLeadRepository(store *storage.Store, latency Latency) *LeadRepository {
	return &LeadRepository{store: store, latency: latency, now: time.Now}
}

func (r *LeadRepository) List(ctx context.Context) ([]models.Lead, error) {
	if err := r.latency.wait(ctx, delayList); err != nil {
		return nil, err
	}
	return r.store.Leads(ctx), nil
}

// GetByID returns nil, nil when the lead does not exist.
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	if err := r.latency.wait(ctx, delayGet); err != nil {
		return nil, err
	}
	for _, l := range r.store.Leads(ctx) {
		if l.ID == id {
			lead := l
			return &lead, nil
		}
	}
	return nil, nil
}

// Create assigns id and timestamps where missing and appends the lead.
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	if err := r.latency.wait(ctx, delayCreate); err != nil {
		return err
	}
	now := r.now().UTC()
	if lead.ID == "" {
		lead.ID = "lead_" + uuid.NewString()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	if lead.LastContacted == nil {
		lead.LastContacted = &now
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	leads := r.store.Leads(ctx)
	leads = append(leads, *lead)
	return r.store.SetLeads(ctx, leads)
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch models.UpdateLeadRequest) (*models.Lead, error) {
	if err := r.latency.wait(ctx, delayUpdate); err != nil {
		return nil, err
	}
	return r.mutate(ctx, id, func(l *models.Lead) error {
		if err := checkStatusChange(l, patch.Status); err != nil {
			return err
		}
		patch.Apply(l)
		return nil
	})
}

// checkStatusChange rejects status patches that would leave or enter
// Converted. It runs under the collection lock so a concurrent conversion
// is always observed.
func checkStatusChange(l *models.Lead, to *models.LeadStatus) error {
	if to == nil || *to == l.Status {
		return nil
	}
	var msg string
	switch {
	case l.IsConverted():
		msg = fmt.Sprintf("cannot change from %s to %s", l.Status, *to)
	case *to == models.StatusConverted:
		msg = "can only become Converted through conversion"
	default:
		return nil
	}
	return &apperr.ValidationError{
		Message: "Invalid lead data",
		Fields:  []apperr.FieldError{{Field: "status", Message: msg}},
	}
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	if err := r.latency.wait(ctx, delayDelete); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	leads := r.store.Leads(ctx)
	idx := indexOfLead(leads, id)
	if idx < 0 {
		return apperr.NewNotFound("lead", id)
	}
	leads = append(leads[:idx], leads[idx+1:]...)
	return r.store.SetLeads(ctx, leads)
}

// MarkConverted moves the lead to Converted and stamps convertedAt. A lead
// that is already converted yields *apperr.AlreadyConvertedError.
func (r *LeadRepository) MarkConverted(ctx context.Context, id string, at time.Time) (*models.Lead, error) {
	if err := r.latency.wait(ctx, delayConvert); err != nil {
		return nil, err
	}
	return r.mutate(ctx, id, func(l *models.Lead) error {
		if l.IsConverted() {
			return &apperr.AlreadyConvertedError{LeadID: id}
		}
		t := at
		l.Status = models.StatusConverted
		l.ConvertedAt = &t
		return nil
	})
}

// RestoreStatus undoes MarkConverted. Only used to compensate a failed conversion.
func (r *LeadRepository) RestoreStatus(ctx context.Context, id string, status models.LeadStatus) error {
	_, err := r.mutate(ctx, id, func(l *models.Lead) error {
		l.Status = status
		l.ConvertedAt = nil
		return nil
	})
	return err
}

// ReplaceAll overwrites the whole collection.
func (r *LeadRepository) ReplaceAll(ctx context.Context, leads []models.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.SetLeads(ctx, leads)
}

// mutate applies fn to the lead under the collection lock. Nothing is
// written when fn returns an error.
func (r *LeadRepository) mutate(ctx context.Context, id string, fn func(*models.Lead) error) (*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	leads := r.store.Leads(ctx)
	idx := indexOfLead(leads, id)
	if idx < 0 {
		return nil, apperr.NewNotFound("lead", id)
	}
	if err := fn(&leads[idx]); err != nil {
		return nil, err
	}
	if err := r.store.SetLeads(ctx, leads); err != nil {
		return nil, err
	}
	out := leads[idx]
	return &out, nil
}

func indexOfLead(leads []models.Lead, id string) int {
	for i := range leads {
		if leads[i].ID == id {
			return i
		}
	}
	return -1
}
