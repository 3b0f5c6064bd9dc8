package exports

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/internal/leads/scoring"
	"visa_leads_backend/platform/sanitize"
)

var baseColumns = []string{
	"id", "full_name", "email", "phone", "nationality", "visa_types", "destination_country",
	"inquiry_date", "lead_source", "current_location", "preferred_program", "assigned_to",
	"status", "stage", "lead_score", "score_band", "next_follow_up_date", "follow_up_method", "notes",
}

// WriteLeadsCSV writes one row per lead. Custom fields become extra columns
// named "custom:<name>", in the order they are first seen. Free-text cells
// are guarded against spreadsheet formula injection.
func WriteLeadsCSV(w io.Writer, leads []domain.Lead) error {
	var customNames []string
	seen := map[string]struct{}{}
	for _, l := range leads {
		for _, f := range l.CustomFields {
			if _, ok := seen[f.Name]; !ok {
				seen[f.Name] = struct{}{}
				customNames = append(customNames, f.Name)
			}
		}
	}

	cw := csv.NewWriter(w)
	header := append([]string{}, baseColumns...)
	for _, name := range customNames {
		header = append(header, "custom:"+name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, l := range leads {
		var inquiry, nextFollowUp string
		if !l.InquiryDate.IsZero() {
			inquiry = l.InquiryDate.Format(domain.DateLayout)
		}
		if l.NextFollowUpDate != nil {
			nextFollowUp = l.NextFollowUpDate.Format(domain.DateLayout)
		}

		row := []string{
			l.ID.String(),
			sanitize.ExportText(l.FullName),
			l.Email,
			l.Phone,
			sanitize.ExportText(l.Nationality),
			strings.Join(l.VisaTypes, ";"),
			sanitize.ExportText(l.DestinationCountry),
			inquiry,
			sanitize.ExportText(l.LeadSource),
			sanitize.ExportText(l.CurrentLocation),
			sanitize.ExportText(l.PreferredProgram),
			sanitize.ExportText(l.AssignedTo),
			string(l.Status),
			string(l.Stage),
			strconv.Itoa(l.LeadScore),
			string(scoring.BandFor(l.LeadScore)),
			nextFollowUp,
			string(l.FollowUpMethod),
			sanitize.ExportText(l.Notes),
		}
		values := make(map[string]string, len(l.CustomFields))
		for _, f := range l.CustomFields {
			values[f.Name] = fieldText(f.Value)
		}
		for _, name := range customNames {
			row = append(row, values[name])
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fieldText(v domain.FieldValue) string {
	switch val := v.(type) {
	case domain.TextValue:
		return sanitize.ExportText(string(val))
	case domain.NumberValue:
		if !val.Valid {
			return ""
		}
		return strconv.FormatFloat(val.Number, 'f', -1, 64)
	case domain.DateValue:
		if !val.Valid {
			return ""
		}
		return val.Date.Format(domain.DateLayout)
	case domain.SwitchValue:
		return strconv.FormatBool(bool(val))
	default:
		return ""
	}
}
