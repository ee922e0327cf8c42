package models

import "time"

// Lead is a prospective customer. Field names follow the persisted JSON layout.
type Lead struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Company       string     `json:"company"`
	Email         string     `json:"email"`
	Source        LeadSource `json:"source"`
	Score         int        `json:"score"`
	Status        LeadStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastContacted *time.Time `json:"lastContacted,omitempty"`
	ConvertedAt   *time.Time `json:"convertedAt,omitempty"`
}

func (l *Lead) IsConverted() bool {
	return l.Status == StatusConverted
}

// CreateLeadRequest is the validated input for a new lead.
type CreateLeadRequest struct {
	Name      string     `json:"name" validate:"required,min=2,max=100,personname"`
	Company   string     `json:"company" validate:"required,min=2,max=100,orgname"`
	Email     string     `json:"email" validate:"required,max=254,email,simpleemail"`
	Source    LeadSource `json:"source" validate:"required,leadsource"`
	Score     int        `json:"score" validate:"min=0,max=100"`
	Status    LeadStatus `json:"status" validate:"required,oneof=New Qualified Hot"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// UpdateLeadRequest is a partial update; nil fields are left untouched.
type UpdateLeadRequest struct {
	Name          *string     `json:"name,omitempty" validate:"omitempty,min=2,max=100,personname"`
	Company       *string     `json:"company,omitempty" validate:"omitempty,min=2,max=100,orgname"`
	Email         *string     `json:"email,omitempty" validate:"omitempty,max=254,email,simpleemail"`
	Source        *LeadSource `json:"source,omitempty" validate:"omitempty,leadsource"`
	Score         *int        `json:"score,omitempty" validate:"omitempty,min=0,max=100"`
	Status        *LeadStatus `json:"status,omitempty" validate:"omitempty,leadstatus"`
	LastContacted *time.Time  `json:"lastContacted,omitempty"`
}

func (r UpdateLeadRequest) Empty() bool {
	return r.Name == nil && r.Company == nil && r.Email == nil && r.Source == nil &&
		r.Score == nil && r.Status == nil && r.LastContacted == nil
}

// Apply copies the non-nil fields of the patch onto l.
func (r UpdateLeadRequest) Apply(l *Lead) {
	if r.Name != nil {
		l.Name = *r.Name
	}
	if r.Company != nil {
		l.Company = *r.Company
	}
	if r.Email != nil {
		l.Email = *r.Email
	}
	if r.Source != nil {
		l.Source = *r.Source
	}
	if r.Score != nil {
		l.Score = *r.Score
	}
	if r.Status != nil {
		l.Status = *r.Status
	}
	if r.LastContacted != nil {
		t := *r.LastContacted
		l.LastContacted = &t
	}
}

// ConvertLeadRequest carries the optional deal amount for a conversion.
type ConvertLeadRequest struct {
	Amount *float64 `json:"amount,omitempty" example:"50000" validate:"omitempty,gt=0,lte=999999999.99"`
}
