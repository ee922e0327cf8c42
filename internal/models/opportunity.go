package models

import "time"

// Opportunity is a pipeline record created by converting a lead.
type Opportunity struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Stage         OpportunityStage `json:"stage"`
	Amount        *float64         `json:"amount,omitempty"`
	AccountName   string           `json:"accountName"`
	ConvertedFrom string           `json:"convertedFrom"`
	ConvertedAt   time.Time        `json:"convertedAt"`
}

// AmountValue returns the amount or 0 when unset.
func (o *Opportunity) AmountValue() float64 {
	if o.Amount == nil {
		return 0
	}
	return *o.Amount
}

type CreateOpportunityRequest struct {
	Name          string           `json:"name" validate:"required,min=2,max=100,orgname"`
	Stage         OpportunityStage `json:"stage" validate:"required,stage"`
	Amount        *float64         `json:"amount,omitempty" validate:"omitempty,gt=0,lte=999999999.99"`
	AccountName   string           `json:"accountName" validate:"required,min=2,max=100,orgname"`
	ConvertedFrom string           `json:"convertedFrom" validate:"required"`
}

type UpdateOpportunityRequest struct {
	Name        *string           `json:"name,omitempty" validate:"omitempty,min=2,max=100,orgname"`
	Stage       *OpportunityStage `json:"stage,omitempty" validate:"omitempty,stage"`
	Amount      *float64          `json:"amount,omitempty" validate:"omitempty,gt=0,lte=999999999.99"`
	AccountName *string           `json:"accountName,omitempty" validate:"omitempty,min=2,max=100,orgname"`
}

func (r UpdateOpportunityRequest) Empty() bool {
	return r.Name == nil && r.Stage == nil && r.Amount == nil && r.AccountName == nil
}

func (r UpdateOpportunityRequest) Apply(o *Opportunity) {
	if r.Name != nil {
		o.Name = *r.Name
	}
	if r.Stage != nil {
		o.Stage = *r.Stage
	}
	if r.Amount != nil {
		a := *r.Amount
		o.Amount = &a
	}
	if r.AccountName != nil {
		o.AccountName = *r.AccountName
	}
}
