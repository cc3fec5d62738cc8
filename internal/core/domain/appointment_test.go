package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw       string
		pending   bool
		completed bool
		cancelled bool
		known     bool
	}{
		{"PENDING", true, false, false, true},
		{"completed", false, true, false, true},
		{"Cancelled", false, false, true, true},
		{"RESCHEDULED", false, false, false, false},
	}
	for _, tt := range tests {
		s := ParseStatus(tt.raw)
		if s.IsPending() != tt.pending || s.IsCompleted() != tt.completed || s.IsCancelled() != tt.cancelled || s.IsKnown() != tt.known {
			t.Errorf("ParseStatus(%q) = %+v", tt.raw, s)
		}
		if s.String() != tt.raw {
			t.Errorf("raw value not kept: %q -> %q", tt.raw, s.String())
		}
	}
}

func TestStatus_TransitionTo(t *testing.T) {
	next, err := StatusCompleted.TransitionTo(StatusPending)
	if err != nil || !next.IsPending() {
		t.Errorf("COMPLETED -> PENDING should be allowed, got %v, %v", next, err)
	}
	if _, err := StatusPending.TransitionTo(ParseStatus("")); err != ErrInvalidStatus {
		t.Errorf("empty target: got %v", err)
	}
}

func TestStatus_JSONKeepsUnknownValues(t *testing.T) {
	in := Appointment{ID: 1, Status: ParseStatus("NO_SHOW"), AppointmentTime: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Appointment
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Status.String() != "NO_SHOW" || out.Status.IsKnown() {
		t.Errorf("status = %+v", out.Status)
	}
}

func TestAppointment_Projections(t *testing.T) {
	a := Appointment{AppointmentTime: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	if !a.EndTime().Equal(time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", a.EndTime())
	}
	if a.Date() != "2024-05-01" {
		t.Errorf("date = %q", a.Date())
	}
	if a.TimeOfDay().String() != "10:00" {
		t.Errorf("time = %q", a.TimeOfDay())
	}
}
