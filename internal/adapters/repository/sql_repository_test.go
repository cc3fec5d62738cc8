package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no_rows", sql.ErrNoRows, domain.ErrNotFound},
		{"wrapped_no_rows", fmt.Errorf("no rows affected: %w", sql.ErrNoRows), domain.ErrNotFound},
		{"unique_violation", &pq.Error{Code: uniqueViolation, Constraint: "appointments_doctor_slot_key"}, domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate("op", tt.err); !errors.Is(got, tt.want) {
				t.Errorf("translate() = %v, want %v", got, tt.want)
			}
		})
	}

	if translate("op", nil) != nil {
		t.Error("nil error must stay nil")
	}
	other := translate("op", &pq.Error{Code: "42P01"})
	if errors.Is(other, domain.ErrConflict) || errors.Is(other, domain.ErrNotFound) {
		t.Errorf("unexpected mapping: %v", other)
	}
}

func TestLikePattern(t *testing.T) {
	if got := likePattern("50%_a"); got != `%50\%\_a%` {
		t.Errorf("got %q", got)
	}
}

func TestWallClock(t *testing.T) {
	zone := time.FixedZone("CEST", 2*60*60)
	got := wallClock(time.Date(2024, 5, 1, 10, 0, 0, 0, zone))
	if got.Location() != time.UTC || got.Hour() != 10 {
		t.Errorf("got %v", got)
	}
}
