package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"leadforge/internal/apperr"
	"leadforge/internal/models"
)

type OpportunityService struct {
	Repo     OpportunityRepo
	LeadRepo LeadRepo
	notifier Notifier
	validate *validator.Validate
	log      *zap.Logger
}

func NewOpportunityService(repo OpportunityRepo, leadRepo LeadRepo, notifier Notifier, log *zap.Logger) *OpportunityService {
	if log == nil {
		log = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewFanout(log)
	}
	return &OpportunityService{
		Repo:     repo,
		LeadRepo: leadRepo,
		notifier: notifier,
		validate: NewValidator(),
		log:      log.Named("opportunities"),
	}
}

func (s *OpportunityService) List(ctx context.Context) ([]models.Opportunity, error) {
	return s.Repo.List(ctx)
}

func (s *OpportunityService) GetByID(ctx context.Context, id string) (*models.Opportunity, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.NewValidation("Opportunity ID is required")
	}
	opp, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if opp == nil {
		return nil, apperr.NewNotFound("opportunity", id)
	}
	return opp, nil
}

// Create stores an opportunity for an existing lead. The lead is not
// touched; use LeadService.ConvertToOpportunity for the full conversion.
func (s *OpportunityService) Create(ctx context.Context, req models.CreateOpportunityRequest) (*models.Opportunity, error) {
	normalizeOpportunity(&req.Name, &req.AccountName)
	req.ConvertedFrom = strings.TrimSpace(req.ConvertedFrom)
	if req.Stage == "" {
		req.Stage = models.StageProspecting
	}
	if err := validateStruct(s.validate, "Invalid opportunity data", req); err != nil {
		s.fail(ctx, "Failed to create opportunity", err)
		return nil, err
	}
	lead, err := s.LeadRepo.GetByID(ctx, req.ConvertedFrom)
	if err != nil {
		s.fail(ctx, "Failed to create opportunity", err)
		return nil, err
	}
	if lead == nil {
		err := &apperr.ValidationError{
			Message: "Invalid opportunity data",
			Fields:  []apperr.FieldError{{Field: "convertedFrom", Message: "must reference an existing lead"}},
		}
		s.fail(ctx, "Failed to create opportunity", err)
		return nil, err
	}

	opp := &models.Opportunity{
		Name:          req.Name,
		Stage:         req.Stage,
		Amount:        req.Amount,
		AccountName:   req.AccountName,
		ConvertedFrom: req.ConvertedFrom,
		ConvertedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, opp); err != nil {
		s.fail(ctx, "Failed to create opportunity", err)
		return nil, err
	}
	s.emit(ctx, NotifySuccess, EventOpportunityCreated, "Opportunity created", opp.Name)
	return opp, nil
}

func (s *OpportunityService) Update(ctx context.Context, id string, req models.UpdateOpportunityRequest) (*models.Opportunity, error) {
	if req.Empty() {
		return nil, apperr.NewValidation("No update data provided")
	}
	normalizeOpportunity(req.Name, req.AccountName)
	if err := validateStruct(s.validate, "Invalid opportunity data", req); err != nil {
		s.fail(ctx, "Failed to update opportunity", err)
		return nil, err
	}
	current, err := s.GetByID(ctx, id)
	if err != nil {
		s.fail(ctx, "Failed to update opportunity", err)
		return nil, err
	}
	if req.Stage != nil && !canTransition(current.Stage, *req.Stage, StageTransitions) {
		err := &apperr.ValidationError{
			Message: "Invalid opportunity data",
			Fields: []apperr.FieldError{{
				Field:   "stage",
				Message: fmt.Sprintf("cannot change from %s to %s", current.Stage, *req.Stage),
			}},
		}
		s.fail(ctx, "Failed to update opportunity", err)
		return nil, err
	}

	updated, err := s.Repo.Update(ctx, id, req)
	if err != nil {
		s.fail(ctx, "Failed to update opportunity", err)
		return nil, err
	}
	s.emit(ctx, NotifySuccess, EventOpportunityUpdated, "Opportunity updated", updated.Name)
	return updated, nil
}

func (s *OpportunityService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.NewValidation("Opportunity ID is required")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		s.fail(ctx, "Failed to delete opportunity", err)
		return err
	}
	s.emit(ctx, NotifySuccess, EventOpportunityDeleted, "Opportunity deleted", id)
	return nil
}

func (s *OpportunityService) emit(ctx context.Context, typ NotificationType, event, title, desc string) {
	_ = s.notifier.Notify(ctx, Notification{Type: typ, Event: event, Title: title, Description: desc})
}

func (s *OpportunityService) fail(ctx context.Context, title string, err error) {
	s.log.Warn(strings.ToLower(title), zap.Error(err))
	s.emit(ctx, NotifyError, EventOperationFailed, title, err.Error())
}
