package transport

import (
	"fmt"
	"strings"

	"visa_leads_backend/internal/leads/analytics"
	"visa_leads_backend/internal/leads/customfields"
	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/internal/leads/management"
	"visa_leads_backend/internal/leads/query"
	"visa_leads_backend/internal/leads/scoring"
	"visa_leads_backend/platform/apperr"
)

func ToLeadResponse(l domain.Lead) LeadResponse {
	fields := make([]CustomFieldResponse, 0, len(l.CustomFields))
	for _, f := range l.CustomFields {
		fields = append(fields, ToCustomFieldResponse(f))
	}

	var inquiry string
	if !l.InquiryDate.IsZero() {
		inquiry = l.InquiryDate.Format(domain.DateLayout)
	}

	return LeadResponse{
		ID:                 l.ID,
		FullName:           l.FullName,
		Email:              l.Email,
		Phone:              l.Phone,
		Nationality:        l.Nationality,
		VisaTypes:          l.VisaTypes,
		DestinationCountry: l.DestinationCountry,
		InquiryDate:        inquiry,
		LeadSource:         l.LeadSource,
		CurrentLocation:    l.CurrentLocation,
		PreferredProgram:   l.PreferredProgram,
		AssignedTo:         l.AssignedTo,
		Notes:              l.Notes,
		AdditionalNotes:    l.AdditionalNotes,
		Status:             l.Status,
		Stage:              l.Stage,
		LeadScore:          l.LeadScore,
		ScoreBand:          scoring.BandFor(l.LeadScore),
		NextFollowUpDate:   formatDate(l.NextFollowUpDate),
		FollowUpMethod:     l.FollowUpMethod,
		LastUpdated:        l.LastUpdated,
		CustomFields:       fields,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

func ToCustomFieldResponse(f domain.CustomField) CustomFieldResponse {
	return CustomFieldResponse{
		ID:          f.ID,
		Name:        f.Name,
		Label:       f.Label,
		Type:        f.Type,
		Placeholder: f.Placeholder,
		Required:    f.Required,
		Options:     f.Options,
		Value:       f.Value,
	}
}

func ToLeadListResponse(p query.Page) LeadListResponse {
	items := make([]LeadResponse, 0, len(p.Items))
	for _, l := range p.Items {
		items = append(items, ToLeadResponse(l))
	}
	return LeadListResponse{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

func ToMetricsResponse(m analytics.LeadMetrics) LeadMetricsResponse {
	staff := make([]StaffMetrics, 0, len(m.Staff))
	for _, s := range m.Staff {
		staff = append(staff, StaffMetrics{
			Name:           s.Name,
			LeadsHandled:   s.LeadsHandled,
			Closed:         s.Closed,
			ConversionRate: s.ConversionRate,
		})
	}
	return LeadMetricsResponse{
		TotalLeads:     m.TotalLeads,
		ByStage:        m.ByStage,
		ByStatus:       m.ByStatus,
		ScoreBands:     m.ScoreBands,
		AverageScore:   m.AverageScore,
		ConversionRate: m.ConversionRate,
		Staff:          staff,
	}
}

// ToInput converts the request into service input. Custom field values are
// decoded against their declared type.
func (r CreateLeadRequest) ToInput() (management.LeadInput, error) {
	fields, err := toCustomFields(r.CustomFields)
	if err != nil {
		return management.LeadInput{}, err
	}

	in := management.LeadInput{
		FullName:           r.FullName,
		Email:              r.Email,
		Phone:              r.Phone,
		Nationality:        r.Nationality,
		VisaTypes:          r.VisaTypes,
		DestinationCountry: r.DestinationCountry,
		InquiryDate:        r.InquiryDate.Time,
		LeadSource:         r.LeadSource,
		CurrentLocation:    r.CurrentLocation,
		PreferredProgram:   r.PreferredProgram,
		AssignedTo:         r.AssignedTo,
		Notes:              r.Notes,
		AdditionalNotes:    r.AdditionalNotes,
		Status:             r.Status,
		Stage:              r.Stage,
		LeadScore:          r.LeadScore,
		FollowUpMethod:     r.FollowUpMethod,
		CustomFields:       fields,
	}
	if r.NextFollowUpDate != nil && !r.NextFollowUpDate.IsZero() {
		d := r.NextFollowUpDate.Time
		in.NextFollowUpDate = &d
	}
	return in, nil
}

func (r UpdateLeadRequest) ToPatch() (management.LeadPatch, error) {
	p := management.LeadPatch{
		FullName:           r.FullName,
		Email:              r.Email,
		Phone:              r.Phone,
		Nationality:        r.Nationality,
		VisaTypes:          r.VisaTypes,
		DestinationCountry: r.DestinationCountry,
		LeadSource:         r.LeadSource,
		CurrentLocation:    r.CurrentLocation,
		PreferredProgram:   r.PreferredProgram,
		AssignedTo:         r.AssignedTo,
		Notes:              r.Notes,
		AdditionalNotes:    r.AdditionalNotes,
		Status:             r.Status,
		Stage:              r.Stage,
		LeadScore:          r.LeadScore,
		FollowUpMethod:     r.FollowUpMethod,
	}
	if r.InquiryDate != nil {
		d := r.InquiryDate.Time
		p.InquiryDate = &d
	}
	if r.NextFollowUpDate.Set {
		if r.NextFollowUpDate.Value == nil {
			p.ClearNextFollowUpDate = true
		} else {
			p.NextFollowUpDate = r.NextFollowUpDate.Value
		}
	}
	if r.CustomFields != nil {
		fields, err := toCustomFields(*r.CustomFields)
		if err != nil {
			return management.LeadPatch{}, err
		}
		p.CustomFields = &fields
	}
	return p, nil
}

func (r CustomFieldRequest) ToDefinition() customfields.Definition {
	return customfields.Definition{
		Name:        r.Name,
		Label:       r.Label,
		Type:        r.Type,
		Placeholder: r.Placeholder,
		Required:    r.Required,
		Options:     r.Options,
	}
}

func (r UpdateCustomFieldRequest) ToPatch() customfields.Patch {
	return customfields.Patch{
		Name:        r.Name,
		Label:       r.Label,
		Type:        r.Type,
		Placeholder: r.Placeholder,
		Required:    r.Required,
		Options:     r.Options,
	}
}

func (r ListLeadsRequest) ToCriteria() (query.Criteria, error) {
	dr, err := dateRange(r.From, r.To)
	if err != nil {
		return query.Criteria{}, err
	}
	return query.Criteria{
		SearchText:  r.Search,
		Nationality: r.Nationality,
		VisaType:    r.VisaType,
		Status:      domain.Status(r.Status),
		Stage:       domain.Stage(r.Stage),
		LeadSource:  r.LeadSource,
		DateRange:   dr,
	}, nil
}

func (r ExportLeadsRequest) ToCriteria() (query.Criteria, error) {
	return ListLeadsRequest{
		Search:      r.Search,
		Nationality: r.Nationality,
		VisaType:    r.VisaType,
		Status:      r.Status,
		Stage:       r.Stage,
		LeadSource:  r.LeadSource,
		From:        r.From,
		To:          r.To,
	}.ToCriteria()
}

func dateRange(from, to string) (query.DateRange, error) {
	var dr query.DateRange
	if from = strings.TrimSpace(from); from != "" {
		d, err := domain.ParseDate(from)
		if err != nil {
			return dr, apperr.Validation("from: " + err.Error())
		}
		dr.Start = d
	}
	if to = strings.TrimSpace(to); to != "" {
		d, err := domain.ParseDate(to)
		if err != nil {
			return dr, apperr.Validation("to: " + err.Error())
		}
		dr.End = d
	}
	return dr, nil
}

func toCustomFields(reqs []CustomFieldRequest) ([]domain.CustomField, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	out := make([]domain.CustomField, 0, len(reqs))
	for _, r := range reqs {
		if r.Type == "" {
			r.Type = domain.FieldText
		}
		value, err := domain.DecodeValue(r.Type, r.Value)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("%s: %s", r.Label, err.Error()))
		}
		f := domain.CustomField{
			Name:        r.Name,
			Label:       r.Label,
			Type:        r.Type,
			Placeholder: r.Placeholder,
			Required:    r.Required,
			Options:     r.Options,
			Value:       value,
		}
		if r.ID != nil {
			f.ID = *r.ID
		}
		out = append(out, f)
	}
	return out, nil
}
