package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// FieldType is the declared type of a custom field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldSelect   FieldType = "select"
	FieldDate     FieldType = "date"
	FieldSwitch   FieldType = "switch"
)

// FieldTypes lists every supported custom field type.
var FieldTypes = []FieldType{FieldText, FieldTextarea, FieldNumber, FieldSelect, FieldDate, FieldSwitch}

// IsValid reports whether t is a supported field type.
func (t FieldType) IsValid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// CustomField is a per-lead field definition travelling together with its value.
type CustomField struct {
	ID          uuid.UUID
	Name        string
	Label       string
	Type        FieldType
	Placeholder string
	Required    bool
	Options     []string
	Value       FieldValue
}

// Clone returns a copy with its own Options slice. Values are immutable.
func (f CustomField) Clone() CustomField {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	return out
}

// IsEmpty reports whether the field holds no usable value.
func (f CustomField) IsEmpty() bool {
	return f.Value == nil || f.Value.IsEmpty()
}

type customFieldJSON struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Label       string          `json:"label"`
	Type        FieldType       `json:"type"`
	Placeholder string          `json:"placeholder,omitempty"`
	Required    bool            `json:"required"`
	Options     []string        `json:"options,omitempty"`
	Value       json.RawMessage `json:"value"`
}

// MarshalJSON writes the value in its natural JSON form ("", null, 12.5, "2024-04-15", false).
func (f CustomField) MarshalJSON() ([]byte, error) {
	value := f.Value
	if value == nil {
		value = EmptyValue(f.Type)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(customFieldJSON{
		ID:          f.ID,
		Name:        f.Name,
		Label:       f.Label,
		Type:        f.Type,
		Placeholder: f.Placeholder,
		Required:    f.Required,
		Options:     f.Options,
		Value:       raw,
	})
}

// UnmarshalJSON decodes the value into the variant matching the field's type.
func (f *CustomField) UnmarshalJSON(data []byte) error {
	var aux customFieldJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if !aux.Type.IsValid() {
		return fmt.Errorf("custom field %q: unknown type %q", aux.Name, aux.Type)
	}
	value, err := DecodeValue(aux.Type, aux.Value)
	if err != nil {
		return fmt.Errorf("custom field %q: %w", aux.Name, err)
	}
	*f = CustomField{
		ID:          aux.ID,
		Name:        aux.Name,
		Label:       aux.Label,
		Type:        aux.Type,
		Placeholder: aux.Placeholder,
		Required:    aux.Required,
		Options:     aux.Options,
		Value:       value,
	}
	return nil
}
