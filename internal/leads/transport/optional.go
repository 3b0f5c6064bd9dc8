package transport

import (
	"encoding/json"
	"time"

	"visa_leads_backend/internal/leads/domain"
)

// Date is a calendar date on the wire: YYYY-MM-DD, or an RFC 3339 timestamp
// whose day is kept.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(domain.DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := domain.ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

// OptionalDate distinguishes an absent date from an explicit null, which
// clears it.
type OptionalDate struct {
	Value *time.Time
	Set   bool
}

func (o OptionalDate) IsZero() bool {
	return !o.Set
}

func (o *OptionalDate) UnmarshalJSON(data []byte) error {
	o.Set = true
	var d Date
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	if d.IsZero() {
		o.Value = nil
		return nil
	}
	o.Value = &d.Time
	return nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}
