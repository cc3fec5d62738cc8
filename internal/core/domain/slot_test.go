package domain

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: TimeOfDay{Hour: 9}},
		{in: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{in: "10:15:30", want: TimeOfDay{Hour: 10, Minute: 15, Second: 30}},
		{in: "9:00", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
		{in: "09:00 ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTimeOfDay_String(t *testing.T) {
	if s := (TimeOfDay{Hour: 9}).String(); s != "09:00" {
		t.Errorf("got %q", s)
	}
	if s := (TimeOfDay{Hour: 9, Minute: 5, Second: 7}).String(); s != "09:05:07" {
		t.Errorf("got %q", s)
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		name  string
		hour  int
		match bool
		found bool
	}{
		{"morning", 6, true, true},
		{"morning", 12, false, true},
		{"Afternoon", 12, true, true},
		{"afternoon", 17, false, true},
		{" evening ", 20, true, true},
		{"evening", 21, false, true},
		{"AM", 0, true, true},
		{"pm", 23, true, true},
		{"night", 2, false, false},
	}
	for _, tt := range tests {
		r, ok := Bucket(tt.name)
		if ok != tt.found {
			t.Errorf("Bucket(%q) found = %v", tt.name, ok)
			continue
		}
		if ok && r.Contains(tt.hour) != tt.match {
			t.Errorf("Bucket(%q).Contains(%d) = %v", tt.name, tt.hour, !tt.match)
		}
	}
}

func TestDayBounds(t *testing.T) {
	from, to := DayBounds(time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC))
	if !from.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", from)
	}
	if !to.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v", to)
	}
}

func TestIsWildcard(t *testing.T) {
	for _, s := range []string{"", "null", "all"} {
		if !IsWildcard(s) {
			t.Errorf("IsWildcard(%q) = false", s)
		}
	}
	for _, s := range []string{"jo", "morning", "nul", "NULL", "ALL", " all "} {
		if IsWildcard(s) {
			t.Errorf("IsWildcard(%q) = true", s)
		}
	}
}
