// Package seed loads demo leads and follow-ups from a YAML fixture. Every
// record goes through the regular services so validation and defaults apply.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	fudomain "visa_leads_backend/internal/followups/domain"
	fuservice "visa_leads_backend/internal/followups/service"
	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/internal/leads/management"
	"visa_leads_backend/platform/logger"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/leads.yaml
var defaultFixture []byte

// Fixture is the root of a seed file.
type Fixture struct {
	Leads []LeadFixture `yaml:"leads"`
}

type LeadFixture struct {
	FullName           string               `yaml:"fullName"`
	Email              string               `yaml:"email"`
	Phone              string               `yaml:"phone"`
	Nationality        string               `yaml:"nationality"`
	VisaTypes          []string             `yaml:"visaTypes"`
	DestinationCountry string               `yaml:"destinationCountry"`
	InquiryDate        string               `yaml:"inquiryDate"`
	LeadSource         string               `yaml:"leadSource"`
	CurrentLocation    string               `yaml:"currentLocation"`
	PreferredProgram   string               `yaml:"preferredProgram"`
	AssignedTo         string               `yaml:"assignedTo"`
	Notes              string               `yaml:"notes"`
	AdditionalNotes    string               `yaml:"additionalNotes"`
	Status             string               `yaml:"status"`
	Stage              string               `yaml:"stage"`
	LeadScore          *int                 `yaml:"leadScore"`
	NextFollowUpDate   string               `yaml:"nextFollowUpDate"`
	FollowUpMethod     string               `yaml:"followUpMethod"`
	CustomFields       []CustomFieldFixture `yaml:"customFields"`
	FollowUps          []FollowUpFixture    `yaml:"followUps"`
}

type CustomFieldFixture struct {
	Name        string   `yaml:"name"`
	Label       string   `yaml:"label"`
	Type        string   `yaml:"type"`
	Placeholder string   `yaml:"placeholder"`
	Required    bool     `yaml:"required"`
	Options     []string `yaml:"options"`
	Value       any      `yaml:"value"`
}

type FollowUpFixture struct {
	DateTime  time.Time `yaml:"dateTime"`
	Method    string    `yaml:"method"`
	Notes     string    `yaml:"notes"`
	StaffID   string    `yaml:"staffId"`
	StaffName string    `yaml:"staffName"`
	Status    string    `yaml:"status"`
}

// LeadCreator is the part of the lead service seeding needs.
type LeadCreator interface {
	AddLead(ctx context.Context, in management.LeadInput, actor management.Actor) (domain.Lead, error)
}

// FollowUpCreator is the part of the follow-up service seeding needs.
type FollowUpCreator interface {
	Schedule(ctx context.Context, leadID uuid.UUID, in fuservice.ScheduleInput) (fudomain.FollowUp, error)
	MarkStatus(ctx context.Context, id uuid.UUID, status fudomain.Status) (fudomain.FollowUp, error)
}

// Result counts what Apply created.
type Result struct {
	Leads     int
	FollowUps int
}

// Default returns the fixture bundled with the binary.
func Default() (Fixture, error) {
	return Parse(bytes.NewReader(defaultFixture))
}

// LoadFile reads a fixture from path.
func LoadFile(path string) (Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a fixture. Unknown keys are rejected.
func Parse(r io.Reader) (Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return Fixture{}, fmt.Errorf("decode seed file: %w", err)
	}
	return fx, nil
}

// Apply creates every lead in fx, then its follow-ups. It stops at the first
// error; records created before it are kept.
func Apply(ctx context.Context, fx Fixture, leads LeadCreator, followUps FollowUpCreator, actor management.Actor, log *logger.Logger) (Result, error) {
	var res Result
	for i, lf := range fx.Leads {
		in, err := lf.toInput()
		if err != nil {
			return res, fmt.Errorf("lead %d (%s): %w", i, lf.FullName, err)
		}
		lead, err := leads.AddLead(ctx, in, actor)
		if err != nil {
			return res, fmt.Errorf("lead %d (%s): %w", i, lf.FullName, err)
		}
		res.Leads++

		if followUps == nil {
			continue
		}
		for _, ff := range lf.FollowUps {
			f, err := followUps.Schedule(ctx, lead.ID, fuservice.ScheduleInput{
				DateTime:  ff.DateTime,
				Method:    fudomain.Method(ff.Method),
				Notes:     ff.Notes,
				StaffID:   ff.StaffID,
				StaffName: ff.StaffName,
			})
			if err != nil {
				return res, fmt.Errorf("follow-up for %s: %w", lf.FullName, err)
			}
			if ff.Status != "" && fudomain.Status(ff.Status) != f.Status {
				if _, err := followUps.MarkStatus(ctx, f.ID, fudomain.Status(ff.Status)); err != nil {
					return res, fmt.Errorf("follow-up for %s: %w", lf.FullName, err)
				}
			}
			res.FollowUps++
		}
	}

	log.Info("seed applied", "leads", res.Leads, "followUps", res.FollowUps)
	return res, nil
}

func (lf LeadFixture) toInput() (management.LeadInput, error) {
	in := management.LeadInput{
		FullName:           lf.FullName,
		Email:              lf.Email,
		Phone:              lf.Phone,
		Nationality:        lf.Nationality,
		VisaTypes:          lf.VisaTypes,
		DestinationCountry: lf.DestinationCountry,
		LeadSource:         lf.LeadSource,
		CurrentLocation:    lf.CurrentLocation,
		PreferredProgram:   lf.PreferredProgram,
		AssignedTo:         lf.AssignedTo,
		Notes:              lf.Notes,
		AdditionalNotes:    lf.AdditionalNotes,
		Status:             domain.Status(lf.Status),
		Stage:              domain.Stage(lf.Stage),
		LeadScore:          lf.LeadScore,
		FollowUpMethod:     domain.ContactMethod(lf.FollowUpMethod),
	}

	if lf.InquiryDate != "" {
		d, err := domain.ParseDate(lf.InquiryDate)
		if err != nil {
			return in, fmt.Errorf("inquiryDate: %w", err)
		}
		in.InquiryDate = d
	}
	if lf.NextFollowUpDate != "" {
		d, err := domain.ParseDate(lf.NextFollowUpDate)
		if err != nil {
			return in, fmt.Errorf("nextFollowUpDate: %w", err)
		}
		in.NextFollowUpDate = &d
	}

	for _, cf := range lf.CustomFields {
		field := domain.CustomField{
			Name:        cf.Name,
			Label:       cf.Label,
			Type:        domain.FieldType(cf.Type),
			Placeholder: cf.Placeholder,
			Required:    cf.Required,
			Options:     cf.Options,
		}
		if cf.Value != nil {
			raw, err := json.Marshal(cf.Value)
			if err != nil {
				return in, fmt.Errorf("custom field %s: %w", cf.Name, err)
			}
			v, err := domain.DecodeValue(field.Type, raw)
			if err != nil {
				return in, fmt.Errorf("custom field %s: %w", cf.Name, err)
			}
			field.Value = v
		}
		in.CustomFields = append(in.CustomFields, field)
	}
	return in, nil
}
