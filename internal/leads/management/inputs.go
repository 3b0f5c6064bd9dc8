package management

import (
	"time"

	"visa_leads_backend/internal/leads/domain"
)

// Actor is the staff member on whose behalf a mutation runs. The service
// trusts it as given.
type Actor struct {
	ID   string
	Name string
}

// LeadInput carries the fields of a new lead.
type LeadInput struct {
	FullName           string
	Email              string
	Phone              string
	Nationality        string
	VisaTypes          []string
	DestinationCountry string
	InquiryDate        time.Time
	LeadSource         string
	CurrentLocation    string
	PreferredProgram   string
	AssignedTo         string
	Notes              string
	AdditionalNotes    string
	Status             domain.Status
	Stage              domain.Stage
	LeadScore          *int
	NextFollowUpDate   *time.Time
	FollowUpMethod     domain.ContactMethod
	CustomFields       []domain.CustomField
}

// LeadPatch holds the fields to change on an existing lead. Nil members are
// left alone. ClearNextFollowUpDate removes the date.
type LeadPatch struct {
	FullName              *string
	Email                 *string
	Phone                 *string
	Nationality           *string
	VisaTypes             *[]string
	DestinationCountry    *string
	InquiryDate           *time.Time
	LeadSource            *string
	CurrentLocation       *string
	PreferredProgram      *string
	AssignedTo            *string
	Notes                 *string
	AdditionalNotes       *string
	Status                *domain.Status
	Stage                 *domain.Stage
	LeadScore             *int
	NextFollowUpDate      *time.Time
	ClearNextFollowUpDate bool
	FollowUpMethod        *domain.ContactMethod
	CustomFields          *[]domain.CustomField
}

// DeleteOptions controls side effects of DeleteLead.
type DeleteOptions struct {
	// PurgeFollowUps also removes the lead's follow-up history.
	PurgeFollowUps bool
}
