package management

import (
	"fmt"
	"sort"
	"strings"

	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/internal/leads/scoring"
	"visa_leads_backend/platform/apperr"
	"visa_leads_backend/platform/validator"
)

// coreFields mirrors the validated part of a lead.
type coreFields struct {
	FullName           string   `json:"fullName" validate:"required,max=200"`
	Email              string   `json:"email" validate:"required,email"`
	Phone              string   `json:"phone" validate:"required,phone"`
	Nationality        string   `json:"nationality" validate:"required,max=100"`
	VisaTypes          []string `json:"visaTypes" validate:"required,min=1,dive,required"`
	DestinationCountry string   `json:"destinationCountry" validate:"required,max=100"`
	LeadSource         string   `json:"leadSource" validate:"required,max=100"`
}

var coreFieldNames = []string{
	"FullName", "Email", "Phone", "Nationality", "VisaTypes", "DestinationCountry", "LeadSource",
}

func coreOf(l domain.Lead) coreFields {
	return coreFields{
		FullName:           l.FullName,
		Email:              l.Email,
		Phone:              l.Phone,
		Nationality:        l.Nationality,
		VisaTypes:          l.VisaTypes,
		DestinationCountry: l.DestinationCountry,
		LeadSource:         l.LeadSource,
	}
}

// touched records which lead attributes a create or patch set, so only those
// are re-validated.
type touched struct {
	core           []string
	inquiryDate    bool
	followUpMethod bool
	status         bool
	stage          bool
	score          bool
	customFields   bool
}

func allTouched() touched {
	return touched{
		core:           coreFieldNames,
		inquiryDate:    true,
		followUpMethod: true,
		status:         true,
		stage:          true,
		score:          true,
		customFields:   true,
	}
}

func (s *Service) validateLead(l domain.Lead, t touched) error {
	fields := map[string]string{}

	if len(t.core) > 0 {
		if err := s.validator.StructPartial(coreOf(l), t.core...); err != nil {
			fe := validator.FieldErrors(err)
			if fe == nil {
				return apperr.Validation(err.Error())
			}
			for k, v := range fe {
				fields[k] = v
			}
		}
	}
	if t.inquiryDate && l.InquiryDate.IsZero() {
		fields["inquiryDate"] = "required"
	}
	if t.followUpMethod && !l.FollowUpMethod.IsValid() {
		fields["followUpMethod"] = tagFor(string(l.FollowUpMethod))
	}
	if t.status && !l.Status.IsValid() {
		fields["status"] = "oneof"
	}
	if t.stage && !l.Stage.IsValid() {
		fields["stage"] = "oneof"
	}
	if t.score && scoring.Validate(l.LeadScore) != nil {
		fields["leadScore"] = "range"
	}

	if len(fields) > 0 {
		names := make([]string, 0, len(fields))
		for k := range fields {
			names = append(names, k)
		}
		sort.Strings(names)
		return apperr.Validation(fmt.Sprintf("invalid or missing fields: %s", strings.Join(names, ", "))).
			WithDetails(fields)
	}

	if t.customFields {
		return s.fields.Validate(l)
	}
	return nil
}

func tagFor(value string) string {
	if value == "" {
		return "required"
	}
	return "oneof"
}
