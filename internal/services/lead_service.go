package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"leadforge/internal/apperr"
	"leadforge/internal/metrics"
	"leadforge/internal/models"
)

type LeadService struct {
	Repo     LeadRepo
	OppRepo  OpportunityRepo
	notifier Notifier
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

func NewLeadService(leadRepo LeadRepo, oppRepo OpportunityRepo, notifier Notifier, log *zap.Logger) *LeadService {
	if log == nil {
		log = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewFanout(log)
	}
	return &LeadService{
		Repo:     leadRepo,
		OppRepo:  oppRepo,
		notifier: notifier,
		validate: NewValidator(),
		log:      log.Named("leads"),
		now:      time.Now,
	}
}

// ConversionResult is the outcome of a successful conversion.
type ConversionResult struct {
	Lead        models.Lead        `json:"lead"`
	Opportunity models.Opportunity `json:"opportunity"`
}

func (s *LeadService) List(ctx context.Context) ([]models.Lead, error) {
	return s.Repo.List(ctx)
}

// Query loads every lead and runs it through the table pipeline.
func (s *LeadService) Query(ctx context.Context, q LeadQuery) (LeadPage, error) {
	leads, err := s.Repo.List(ctx)
	if err != nil {
		return LeadPage{}, err
	}
	return QueryLeads(leads, q), nil
}

func (s *LeadService) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.NewValidation("Lead ID is required")
	}
	lead, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperr.NewNotFound("lead", id)
	}
	return lead, nil
}

func (s *LeadService) Create(ctx context.Context, req models.CreateLeadRequest) (*models.Lead, error) {
	if req.Status == "" {
		req.Status = models.StatusNew
	}
	normalizeCreateLead(&req)
	if err := validateStruct(s.validate, "Invalid lead data", req); err != nil {
		s.fail(ctx, "Failed to create lead", err)
		return nil, err
	}

	lead := &models.Lead{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Source:  req.Source,
		Score:   req.Score,
		Status:  req.Status,
	}
	if req.CreatedAt != nil {
		lead.CreatedAt = req.CreatedAt.UTC()
	}
	if err := s.Repo.Create(ctx, lead); err != nil {
		s.fail(ctx, "Failed to create lead", err)
		return nil, err
	}
	metrics.LeadsCreated.Inc()
	s.log.Info("lead created", zap.String("lead_id", lead.ID))
	s.emit(ctx, NotifySuccess, EventLeadCreated, "Lead created", fmt.Sprintf("%s from %s was added", lead.Name, lead.Company))
	return lead, nil
}

func (s *LeadService) Update(ctx context.Context, id string, req models.UpdateLeadRequest) (*models.Lead, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.NewValidation("Lead ID is required")
	}
	if req.Empty() {
		return nil, apperr.NewValidation("No update data provided")
	}
	normalizeUpdateLead(&req)
	if err := validateStruct(s.validate, "Invalid lead data", req); err != nil {
		s.fail(ctx, "Failed to update lead", err)
		return nil, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		s.fail(ctx, "Failed to update lead", err)
		return nil, err
	}
	if req.Status != nil && *req.Status != current.Status {
		if *req.Status == models.StatusConverted {
			err := &apperr.ValidationError{
				Message: "Invalid lead data",
				Fields:  []apperr.FieldError{{Field: "status", Message: "can only become Converted through conversion"}},
			}
			s.fail(ctx, "Failed to update lead", err)
			return nil, err
		}
		if !canTransition(current.Status, *req.Status, LeadTransitions) {
			err := &apperr.ValidationError{
				Message: "Invalid lead data",
				Fields: []apperr.FieldError{{
					Field:   "status",
					Message: fmt.Sprintf("cannot change from %s to %s", current.Status, *req.Status),
				}},
			}
			s.fail(ctx, "Failed to update lead", err)
			return nil, err
		}
	}

	updated, err := s.Repo.Update(ctx, id, req)
	if err != nil {
		s.fail(ctx, "Failed to update lead", err)
		return nil, err
	}
	s.emit(ctx, NotifySuccess, EventLeadUpdated, "Lead updated", updated.Name)
	return updated, nil
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.NewValidation("Lead ID is required")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		s.fail(ctx, "Failed to delete lead", err)
		return err
	}
	s.emit(ctx, NotifySuccess, EventLeadDeleted, "Lead deleted", id)
	return nil
}

// Opportunity returns the opportunity that was converted from leadID.
func (s *LeadService) Opportunity(ctx context.Context, leadID string) (*models.Opportunity, error) {
	if _, err := s.GetByID(ctx, leadID); err != nil {
		return nil, err
	}
	opp, err := s.OppRepo.GetByLeadID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if opp == nil {
		return nil, apperr.NewNotFound("opportunity for lead", leadID)
	}
	return opp, nil
}

// ConvertToOpportunity marks the lead Converted and creates its opportunity.
// When the opportunity cannot be stored the lead status is restored; a failed
// restore leaves the lead Converted without an opportunity and is logged.
func (s *LeadService) ConvertToOpportunity(ctx context.Context, leadID string, amount *float64) (*ConversionResult, error) {
	result, err := s.convert(ctx, leadID, amount)
	if err != nil {
		switch {
		case apperr.IsAlreadyConverted(err):
			metrics.RecordConversion("already_converted")
		case apperr.IsValidation(err), apperr.IsNotFound(err):
			metrics.RecordConversion("rejected")
		default:
			metrics.RecordConversion("failed")
		}
		s.fail(ctx, "Failed to convert lead", err)
		return nil, err
	}
	metrics.RecordConversion("converted")
	s.log.Info("lead converted",
		zap.String("lead_id", result.Lead.ID),
		zap.String("opportunity_id", result.Opportunity.ID))
	s.emit(ctx, NotifySuccess, EventLeadConverted, "Lead converted",
		fmt.Sprintf("%s is now an opportunity for %s", result.Lead.Name, result.Opportunity.AccountName))
	return result, nil
}

func (s *LeadService) convert(ctx context.Context, leadID string, amount *float64) (*ConversionResult, error) {
	if strings.TrimSpace(leadID) == "" {
		return nil, apperr.NewValidation("Lead ID is required")
	}
	req := models.ConvertLeadRequest{Amount: amount}
	if err := validateStruct(s.validate, "Invalid conversion data", req); err != nil {
		return nil, err
	}

	lead, err := s.Repo.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperr.NewNotFound("lead", leadID)
	}
	if lead.IsConverted() {
		return nil, &apperr.AlreadyConvertedError{LeadID: leadID}
	}
	previous := lead.Status

	now := s.now().UTC()
	converted, err := s.Repo.MarkConverted(ctx, leadID, now)
	if err != nil {
		return nil, err
	}

	opp := &models.Opportunity{
		Name:          lead.Name,
		Stage:         models.StageProspecting,
		Amount:        amount,
		AccountName:   lead.Company,
		ConvertedFrom: lead.ID,
		ConvertedAt:   now,
	}
	if err := s.OppRepo.Create(ctx, opp); err != nil {
		// best-effort rollback
		rbCtx := context.WithoutCancel(ctx)
		if rbErr := s.Repo.RestoreStatus(rbCtx, leadID, previous); rbErr != nil {
			s.log.Error("conversion left lead without opportunity",
				zap.String("lead_id", leadID), zap.Error(err), zap.NamedError("rollback_error", rbErr))
		}
		return nil, err
	}
	return &ConversionResult{Lead: *converted, Opportunity: *opp}, nil
}

func (s *LeadService) emit(ctx context.Context, typ NotificationType, event, title, desc string) {
	_ = s.notifier.Notify(ctx, Notification{Type: typ, Event: event, Title: title, Description: desc})
}

func (s *LeadService) fail(ctx context.Context, title string, err error) {
	s.log.Warn(strings.ToLower(title), zap.Error(err))
	s.emit(ctx, NotifyError, EventOperationFailed, title, err.Error())
}
