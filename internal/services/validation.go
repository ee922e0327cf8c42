package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"leadforge/internal/apperr"
	"leadforge/internal/models"
)

var (
	personNameRe  = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
	orgNameRe     = regexp.MustCompile(`^[a-zA-Z0-9\s\-'.&]+$`)
	simpleEmailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NewValidator returns a validator that knows the domain tags used on the
// request structs in models.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "personname", func(fl validator.FieldLevel) bool {
		return personNameRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "orgname", func(fl validator.FieldLevel) bool {
		return orgNameRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "simpleemail", func(fl validator.FieldLevel) bool {
		return simpleEmailRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "leadsource", func(fl validator.FieldLevel) bool {
		return models.LeadSource(fl.Field().String()).Valid()
	})
	mustRegister(v, "leadstatus", func(fl validator.FieldLevel) bool {
		return models.LeadStatus(fl.Field().String()).Valid()
	})
	mustRegister(v, "stage", func(fl validator.FieldLevel) bool {
		return models.OpportunityStage(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// validateStruct turns validator failures into an apperr.ValidationError.
func validateStruct(v *validator.Validate, msg string, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.NewValidation(err.Error())
	}
	out := &apperr.ValidationError{Message: msg}
	seen := map[string]bool{}
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		out.Fields = append(out.Fields, apperr.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int64, reflect.Float64, reflect.Float32:
		numeric = true
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if numeric {
			return "must be at least " + fe.Param()
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		if numeric {
			return "cannot exceed " + fe.Param()
		}
		return "cannot exceed " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "cannot exceed 999,999,999.99"
	case "email", "simpleemail":
		return "must be a valid email address"
	case "personname":
		return "can only contain letters, spaces, hyphens, apostrophes, and periods"
	case "orgname":
		return "can only contain letters, numbers, spaces, hyphens, apostrophes, periods, and ampersands"
	case "leadsource":
		return "must be a valid lead source"
	case "leadstatus", "oneof":
		return "must be one of: " + allowedFor(fe)
	case "stage":
		return "must be a valid stage"
	}
	return "is invalid"
}

func allowedFor(fe validator.FieldError) string {
	if fe.Tag() == "oneof" {
		return strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	names := make([]string, 0, len(models.LeadStatuses))
	for _, s := range models.LeadStatuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func normalizeCreateLead(req *models.CreateLeadRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Company = strings.TrimSpace(req.Company)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
}

func normalizeUpdateLead(req *models.UpdateLeadRequest) {
	if req.Name != nil {
		v := strings.TrimSpace(*req.Name)
		req.Name = &v
	}
	if req.Company != nil {
		v := strings.TrimSpace(*req.Company)
		req.Company = &v
	}
	if req.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &v
	}
}

func normalizeOpportunity(name, account *string) {
	if name != nil {
		*name = strings.TrimSpace(*name)
	}
	if account != nil {
		*account = strings.TrimSpace(*account)
	}
}
