package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEmptyValuePerType(t *testing.T) {
	cases := []struct {
		typ  FieldType
		want string
	}{
		{FieldText, `""`},
		{FieldTextarea, `""`},
		{FieldSelect, `""`},
		{FieldNumber, `null`},
		{FieldDate, `null`},
		{FieldSwitch, `false`},
	}

	for _, tc := range cases {
		raw, err := json.Marshal(EmptyValue(tc.typ))
		if err != nil {
			t.Fatalf("marshal %s: %v", tc.typ, err)
		}
		if string(raw) != tc.want {
			t.Errorf("EmptyValue(%s) = %s, want %s", tc.typ, raw, tc.want)
		}
	}
}

func TestDecodeValueAcceptsFormStrings(t *testing.T) {
	v, err := DecodeValue(FieldNumber, json.RawMessage(`"42.5"`))
	if err != nil {
		t.Fatalf("decode number string: %v", err)
	}
	if n, ok := v.(NumberValue); !ok || !n.Valid || n.Number != 42.5 {
		t.Fatalf("got %#v", v)
	}

	v, err = DecodeValue(FieldDate, json.RawMessage(`""`))
	if err != nil {
		t.Fatalf("decode empty date: %v", err)
	}
	if !v.IsEmpty() {
		t.Fatalf("empty date string should clear the value")
	}

	if _, err := DecodeValue(FieldSwitch, json.RawMessage(`"yes"`)); err == nil {
		t.Fatalf("expected error for non-boolean switch value")
	}
}

func TestSwitchFalseIsNotEmpty(t *testing.T) {
	if SwitchValue(false).IsEmpty() {
		t.Fatal("false switch should count as filled")
	}
	if !TextValue("   ").IsEmpty() {
		t.Fatal("blank text should count as empty")
	}
}

func TestCustomFieldJSONKeepsVariant(t *testing.T) {
	in := CustomField{
		ID:       uuid.New(),
		Name:     "passport_expiry",
		Label:    "Passport Expiry",
		Type:     FieldDate,
		Required: true,
		Value:    DateValue{Date: time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), Valid: true},
	}

	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out CustomField
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	dv, ok := out.Value.(DateValue)
	if !ok || !dv.Date.Equal(in.Value.(DateValue).Date) {
		t.Fatalf("value not preserved: %#v", out.Value)
	}
}

func TestCustomFieldJSONRejectsUnknownType(t *testing.T) {
	var f CustomField
	if err := json.Unmarshal([]byte(`{"name":"x","type":"color","value":null}`), &f); err == nil {
		t.Fatal("expected unknown type error")
	}
}

func TestLeadCloneIsIndependent(t *testing.T) {
	next := time.Now()
	lead := Lead{
		VisaTypes:        []string{"student"},
		NextFollowUpDate: &next,
		CustomFields:     []CustomField{{Name: "program", Type: FieldSelect, Options: []string{"a"}}},
	}

	cp := lead.Clone()
	cp.VisaTypes[0] = "work"
	cp.CustomFields[0].Options[0] = "b"
	*cp.NextFollowUpDate = next.Add(time.Hour)

	if lead.VisaTypes[0] != "student" || lead.CustomFields[0].Options[0] != "a" || !lead.NextFollowUpDate.Equal(next) {
		t.Fatal("clone shares state with the original")
	}
}

func TestStageIndex(t *testing.T) {
	if StageNew.Index() != 0 || StageClosed.Index() != 4 {
		t.Fatal("unexpected pipeline order")
	}
	if Stage("archived").IsValid() {
		t.Fatal("unknown stage reported valid")
	}
}
