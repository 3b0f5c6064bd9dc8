package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"visa_leads_backend/platform/apperr"
	"visa_leads_backend/platform/validator"
)

// scheduleFields mirrors the validated part of a ScheduleInput.
type scheduleFields struct {
	DateTime time.Time `json:"dateTime" validate:"required"`
	Method   string    `json:"method" validate:"required,oneof=phone call email whatsapp message meeting"`
	Notes    string    `json:"notes" validate:"required,max=5000"`
}

func fieldsOf(in ScheduleInput) scheduleFields {
	return scheduleFields{
		DateTime: in.DateTime,
		Method:   string(in.Method),
		Notes:    strings.TrimSpace(in.Notes),
	}
}

func (s *Service) validateInput(in ScheduleInput) error {
	err := s.validator.Struct(fieldsOf(in))
	if err == nil {
		return nil
	}

	fields := validator.FieldErrors(err)
	if fields == nil {
		return apperr.Validation(err.Error())
	}
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return apperr.Validation(fmt.Sprintf("invalid or missing fields: %s", strings.Join(names, ", "))).
		WithDetails(fields)
}
