package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/services"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/mocks"
)

func TestAuthorizationService_Authorize(t *testing.T) {
	repo := mocks.NewMockRepository()
	seedDirectory(repo)
	ts := newTokenService(t, repo, nil)
	gate := services.NewAuthorizationService(ts)

	doctorToken, _ := ts.Issue("doc@x.com")
	patientToken, _ := ts.Issue("pat@x.com")
	adminToken, _ := ts.Issue("root")

	tests := []struct {
		name     string
		token    string
		roles    []domain.Role
		wantRole domain.Role
		wantErr  bool
	}{
		{"doctor_passes_doctor_or_patient", doctorToken, []domain.Role{domain.RoleDoctor, domain.RolePatient}, domain.RoleDoctor, false},
		{"patient_passes_doctor_or_patient", patientToken, []domain.Role{domain.RoleDoctor, domain.RolePatient}, domain.RolePatient, false},
		{"admin_rejected_for_doctor_or_patient", adminToken, []domain.Role{domain.RoleDoctor, domain.RolePatient}, "", true},
		{"admin_passes_admin", adminToken, []domain.Role{domain.RoleAdmin}, domain.RoleAdmin, false},
		{"empty_token", "", []domain.Role{domain.RoleAdmin}, "", true},
		{"no_roles", adminToken, nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := gate.Authorize(context.Background(), tt.token, tt.roles...)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Fatalf("expected ErrUnauthorized, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Role != tt.wantRole {
				t.Errorf("role = %q, want %q", p.Role, tt.wantRole)
			}
		})
	}
}

func TestAuthorizationService_NoDirectoryReadForEmptyToken(t *testing.T) {
	repo := mocks.NewMockRepository()
	ts := newTokenService(t, repo, nil)
	gate := services.NewAuthorizationService(ts)

	_, _ = gate.Authorize(context.Background(), "", domain.RoleDoctor)
	if len(repo.DirectoryCalls) != 0 {
		t.Errorf("expected no directory calls, got %v", repo.DirectoryCalls)
	}
}

func TestAuthorizationService_VerifiesTokenOnce(t *testing.T) {
	repo := mocks.NewMockRepository()
	seedDirectory(repo)

	// The clock jumps past expiry after the issue and the first verification.
	issued := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		if calls <= 2 {
			return issued
		}
		return issued.Add(services.TokenLifetime + time.Hour)
	}
	ts := newTokenService(t, repo, clock)
	gate := services.NewAuthorizationService(ts)

	token, err := ts.Issue("pat@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	p, err := gate.Authorize(context.Background(), token, domain.RoleDoctor, domain.RolePatient)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if p.Subject != "pat@x.com" || p.Role != domain.RolePatient {
		t.Errorf("principal = %+v", p)
	}
	if calls != 2 {
		t.Errorf("clock read %d times, want 2", calls)
	}
}
