// Package domain provides core business types for the leads bounded context.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for calendar dates such as the inquiry date.
const DateLayout = "2006-01-02"

// Lead is a prospective visa client tracked through the pipeline.
type Lead struct {
	ID                 uuid.UUID     `json:"id"`
	FullName           string        `json:"fullName"`
	Email              string        `json:"email"`
	Phone              string        `json:"phone"`
	Nationality        string        `json:"nationality"`
	VisaTypes          []string      `json:"visaTypes"`
	DestinationCountry string        `json:"destinationCountry"`
	InquiryDate        time.Time     `json:"inquiryDate"`
	LeadSource         string        `json:"leadSource"`
	CurrentLocation    string        `json:"currentLocation,omitempty"`
	PreferredProgram   string        `json:"preferredProgram,omitempty"`
	AssignedTo         string        `json:"assignedTo,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	AdditionalNotes    string        `json:"additionalNotes,omitempty"`
	Status             Status        `json:"status"`
	Stage              Stage         `json:"stage"`
	LeadScore          int           `json:"leadScore"`
	NextFollowUpDate   *time.Time    `json:"nextFollowUpDate,omitempty"`
	FollowUpMethod     ContactMethod `json:"followUpMethod"`
	LastUpdated        *time.Time    `json:"lastUpdated,omitempty"`
	CustomFields       []CustomField `json:"customFields"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// Clone returns a deep copy that shares no mutable state with l.
func (l Lead) Clone() Lead {
	out := l
	out.VisaTypes = append([]string(nil), l.VisaTypes...)
	out.NextFollowUpDate = cloneTime(l.NextFollowUpDate)
	out.LastUpdated = cloneTime(l.LastUpdated)
	out.CustomFields = make([]CustomField, len(l.CustomFields))
	for i, f := range l.CustomFields {
		out.CustomFields[i] = f.Clone()
	}
	return out
}

// FieldIndex returns the position of the custom field with the given ID, or -1.
func (l Lead) FieldIndex(fieldID uuid.UUID) int {
	for i, f := range l.CustomFields {
		if f.ID == fieldID {
			return i
		}
	}
	return -1
}

// HasFieldName reports whether another field than except already uses name.
// Names compare case-sensitively.
func (l Lead) HasFieldName(name string, except uuid.UUID) bool {
	for _, f := range l.CustomFields {
		if f.Name == name && f.ID != except {
			return true
		}
	}
	return false
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
