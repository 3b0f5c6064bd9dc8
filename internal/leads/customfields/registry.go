// Package customfields manages the per-lead custom field schema and values.
//
// Every operation takes a lead by value and returns an updated copy; the
// input is never modified, so a failed call leaves the caller's state intact.
package customfields

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"visa_leads_backend/internal/leads/domain"
	"visa_leads_backend/platform/apperr"

	"github.com/google/uuid"
)

// Definition describes a new custom field.
type Definition struct {
	Name        string
	Label       string
	Type        domain.FieldType
	Placeholder string
	Required    bool
	Options     []string
}

// Patch holds the definition attributes to change. Nil pointers are left alone.
type Patch struct {
	Name        *string
	Label       *string
	Type        *domain.FieldType
	Placeholder *string
	Required    *bool
	Options     *[]string
}

// Registry applies schema rules to the custom fields of one lead at a time.
type Registry struct {
	newID func() uuid.UUID
}

// New creates a Registry that assigns random field IDs.
func New() *Registry {
	return &Registry{newID: uuid.New}
}

// Add appends a field initialised to its type's empty value. A definition
// without a type is a text field.
func (r *Registry) Add(lead domain.Lead, def Definition) (domain.Lead, domain.CustomField, error) {
	typ := defaultType(def.Type)
	label := strings.TrimSpace(def.Label)
	if err := checkDefinition(def.Name, label, typ); err != nil {
		return lead, domain.CustomField{}, err
	}
	if lead.HasFieldName(def.Name, uuid.Nil) {
		return lead, domain.CustomField{}, duplicateName(def.Name)
	}

	field := domain.CustomField{
		ID:          r.newID(),
		Name:        def.Name,
		Label:       label,
		Type:        typ,
		Placeholder: strings.TrimSpace(def.Placeholder),
		Required:    def.Required,
		Options:     cleanOptions(def.Options),
		Value:       domain.EmptyValue(typ),
	}

	out := lead.Clone()
	out.CustomFields = append(out.CustomFields, field)
	return out, field.Clone(), nil
}

// Update changes a field's definition. Changing the type resets the value to
// the new type's empty value; narrowing select options clears a value that is
// no longer offered.
func (r *Registry) Update(lead domain.Lead, fieldID uuid.UUID, patch Patch) (domain.Lead, domain.CustomField, error) {
	idx := lead.FieldIndex(fieldID)
	if idx < 0 {
		return lead, domain.CustomField{}, fieldNotFound(fieldID)
	}

	out := lead.Clone()
	field := out.CustomFields[idx]

	if patch.Name != nil {
		field.Name = *patch.Name
	}
	if patch.Label != nil {
		field.Label = strings.TrimSpace(*patch.Label)
	}
	if patch.Type != nil && *patch.Type != field.Type {
		field.Type = *patch.Type
		field.Value = domain.EmptyValue(field.Type)
	}
	if patch.Placeholder != nil {
		field.Placeholder = strings.TrimSpace(*patch.Placeholder)
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Options != nil {
		field.Options = cleanOptions(*patch.Options)
	}

	if err := checkDefinition(field.Name, field.Label, field.Type); err != nil {
		return lead, domain.CustomField{}, err
	}
	if out.HasFieldName(field.Name, field.ID) {
		return lead, domain.CustomField{}, duplicateName(field.Name)
	}
	if text, ok := field.Value.(domain.TextValue); ok && field.Type == domain.FieldSelect &&
		!text.IsEmpty() && len(field.Options) > 0 && !slices.Contains(field.Options, string(text)) {
		field.Value = domain.EmptyValue(field.Type)
	}

	out.CustomFields[idx] = field
	return out, field.Clone(), nil
}

// Remove drops a field together with whatever value it held.
func (r *Registry) Remove(lead domain.Lead, fieldID uuid.UUID) (domain.Lead, error) {
	idx := lead.FieldIndex(fieldID)
	if idx < 0 {
		return lead, fieldNotFound(fieldID)
	}

	out := lead.Clone()
	out.CustomFields = slices.Delete(out.CustomFields, idx, idx+1)
	return out, nil
}

// SetValue decodes raw JSON into the field's value variant. Select fields with
// options only accept one of those options.
func (r *Registry) SetValue(lead domain.Lead, fieldID uuid.UUID, raw json.RawMessage) (domain.Lead, domain.CustomField, error) {
	idx := lead.FieldIndex(fieldID)
	if idx < 0 {
		return lead, domain.CustomField{}, fieldNotFound(fieldID)
	}

	field := lead.CustomFields[idx]
	value, err := domain.DecodeValue(field.Type, raw)
	if err != nil {
		return lead, domain.CustomField{}, apperr.Validation(fmt.Sprintf("%s: %s", field.Label, err.Error())).
			WithDetails(map[string]string{"field": field.Name})
	}
	if text, ok := value.(domain.TextValue); ok && field.Type == domain.FieldSelect &&
		!text.IsEmpty() && len(field.Options) > 0 && !slices.Contains(field.Options, string(text)) {
		return lead, domain.CustomField{}, apperr.Validation(fmt.Sprintf("%s: %q is not one of the options", field.Label, string(text))).
			WithDetails(map[string]interface{}{"field": field.Name, "options": field.Options})
	}

	out := lead.Clone()
	out.CustomFields[idx].Value = value
	return out, out.CustomFields[idx].Clone(), nil
}

// Validate checks required-ness only. The error names the first unfilled
// required field's label; details list every unfilled label in field order.
func (r *Registry) Validate(lead domain.Lead) error {
	var missing []string
	for _, f := range lead.CustomFields {
		if f.Required && f.IsEmpty() {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperr.Validation(fmt.Sprintf("%s is required", missing[0])).
		WithDetails(map[string][]string{"missingFields": missing})
}

// Prepare checks a complete field set supplied at lead creation: valid
// definitions, unique names, values of the right variant. Missing IDs are
// assigned and missing values set to the type's empty value.
func (r *Registry) Prepare(fields []domain.CustomField) ([]domain.CustomField, error) {
	out := make([]domain.CustomField, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		f = f.Clone()
		f.Type = defaultType(f.Type)
		f.Label = strings.TrimSpace(f.Label)
		if err := checkDefinition(f.Name, f.Label, f.Type); err != nil {
			return nil, err
		}
		if _, dup := seen[f.Name]; dup {
			return nil, duplicateName(f.Name)
		}
		seen[f.Name] = struct{}{}

		if f.ID == uuid.Nil {
			f.ID = r.newID()
		}
		if f.Value == nil {
			f.Value = domain.EmptyValue(f.Type)
		} else if !domain.Matches(f.Type, f.Value) {
			return nil, apperr.Validation(fmt.Sprintf("%s: value does not match type %s", f.Label, f.Type))
		}
		out = append(out, f)
	}
	return out, nil
}

func defaultType(t domain.FieldType) domain.FieldType {
	if t == "" {
		return domain.FieldText
	}
	return t
}

// checkDefinition rejects blank names but never rewrites them: names are
// matched exactly, surrounding whitespace included.
func checkDefinition(name, label string, t domain.FieldType) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("custom field name is required")
	}
	if label == "" {
		return apperr.Validation("custom field label is required")
	}
	if !t.IsValid() {
		return apperr.Validation(fmt.Sprintf("unknown custom field type %q", t))
	}
	return nil
}

func cleanOptions(options []string) []string {
	if len(options) == 0 {
		return nil
	}
	out := make([]string, 0, len(options))
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" && !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}

func duplicateName(name string) error {
	return apperr.DuplicateField(fmt.Sprintf("a custom field named %q already exists on this lead", name)).
		WithDetails(map[string]string{"name": name})
}

func fieldNotFound(id uuid.UUID) error {
	return apperr.NotFound(fmt.Sprintf("custom field %s not found", id))
}
