package domain

import (
	"testing"
	"time"
)

func TestMethodIsValid(t *testing.T) {
	for _, m := range Methods {
		if !m.IsValid() {
			t.Errorf("%q should be valid", m)
		}
	}
	if Method("fax").IsValid() {
		t.Error("fax should not be valid")
	}
}

func TestIsUpcoming(t *testing.T) {
	now := time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)
	f := FollowUp{Status: StatusPending, DateTime: now.Add(time.Hour)}

	if !f.IsUpcoming(now) {
		t.Error("pending follow-up in the future should be upcoming")
	}
	if f.IsUpcoming(now.Add(time.Hour)) {
		t.Error("follow-up due exactly now is not upcoming")
	}
	f.Status = StatusCompleted
	if f.IsUpcoming(now) {
		t.Error("completed follow-up is not upcoming")
	}
}
