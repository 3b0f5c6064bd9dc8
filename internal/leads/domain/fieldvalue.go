package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldValue is the runtime value of a custom field. The set of
// implementations is closed: TextValue, NumberValue, DateValue, SwitchValue.
type FieldValue interface {
	// IsEmpty reports whether a required field holding this value is unfilled.
	IsEmpty() bool
	sealedFieldValue()
}

// TextValue holds text, textarea and select values.
type TextValue string

func (v TextValue) IsEmpty() bool   { return strings.TrimSpace(string(v)) == "" }
func (TextValue) sealedFieldValue() {}

// NumberValue holds a nullable number.
type NumberValue struct {
	Number float64
	Valid  bool
}

func (v NumberValue) IsEmpty() bool   { return !v.Valid }
func (NumberValue) sealedFieldValue() {}

// MarshalJSON writes null for an unset number.
func (v NumberValue) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Number)
}

// DateValue holds a nullable calendar date.
type DateValue struct {
	Date  time.Time
	Valid bool
}

func (v DateValue) IsEmpty() bool   { return !v.Valid }
func (DateValue) sealedFieldValue() {}

// MarshalJSON writes the date as YYYY-MM-DD, or null when unset.
func (v DateValue) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Date.Format(DateLayout))
}

// SwitchValue holds a boolean toggle. An explicit false counts as filled.
type SwitchValue bool

func (SwitchValue) IsEmpty() bool     { return false }
func (SwitchValue) sealedFieldValue() {}

// EmptyValue returns the type-appropriate empty value: "" for text-like
// fields, null for number and date, false for switch.
func EmptyValue(t FieldType) FieldValue {
	switch t {
	case FieldText, FieldTextarea, FieldSelect:
		return TextValue("")
	case FieldNumber:
		return NumberValue{}
	case FieldDate:
		return DateValue{}
	case FieldSwitch:
		return SwitchValue(false)
	default:
		return nil
	}
}

// Matches reports whether v is the variant used by fields of type t.
func Matches(t FieldType, v FieldValue) bool {
	switch v.(type) {
	case TextValue:
		return t == FieldText || t == FieldTextarea || t == FieldSelect
	case NumberValue:
		return t == FieldNumber
	case DateValue:
		return t == FieldDate
	case SwitchValue:
		return t == FieldSwitch
	default:
		return false
	}
}

// DecodeValue parses raw JSON into the variant for t. Missing or null input
// yields EmptyValue(t). Numbers and dates also accept the string forms sent by
// HTML inputs; an empty string clears them.
func DecodeValue(t FieldType, raw json.RawMessage) (FieldValue, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return EmptyValue(t), nil
	}

	switch t {
	case FieldText, FieldTextarea, FieldSelect:
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("%s value must be a string", t)
		}
		return TextValue(s), nil

	case FieldNumber:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err == nil {
			return NumberValue{Number: n, Valid: true}, nil
		}
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("number value must be numeric")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return NumberValue{}, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("number value must be numeric")
		}
		return NumberValue{Number: n, Valid: true}, nil

	case FieldDate:
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("date value must be a string")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return DateValue{}, nil
		}
		d, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		return DateValue{Date: d, Valid: true}, nil

	case FieldSwitch:
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil, fmt.Errorf("switch value must be true or false")
		}
		return SwitchValue(b), nil

	default:
		return nil, fmt.Errorf("unknown field type %q", t)
	}
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
