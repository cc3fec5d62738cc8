package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/services"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/mocks"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTokenService(t *testing.T, repo *mocks.MockRepository, now func() time.Time) *services.TokenService {
	t.Helper()
	opts := []services.TokenOption{}
	if now != nil {
		opts = append(opts, services.WithClock(now))
	}
	ts, err := services.NewTokenService(testSecret, repo, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func seedDirectory(repo *mocks.MockRepository) {
	repo.SeedAdmin(domain.Admin{Username: "root"})
	repo.SeedDoctor(domain.Doctor{Name: "Doc", Email: "doc@x.com"})
	repo.SeedPatient(domain.Patient{Name: "Pat", Email: "pat@x.com", Phone: "555"})
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	_, err := services.NewTokenService("short", mocks.NewMockRepository(), zerolog.Nop())
	if err != services.ErrWeakSecret {
		t.Fatalf("expected ErrWeakSecret, got %v", err)
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	repo := mocks.NewMockRepository()
	seedDirectory(repo)
	ts := newTokenService(t, repo, nil)

	tests := []struct {
		name     string
		identity string
		role     domain.Role
		want     bool
	}{
		{"admin_by_username", "root", domain.RoleAdmin, true},
		{"doctor_by_email", "doc@x.com", domain.RoleDoctor, true},
		{"patient_by_email", "pat@x.com", domain.RolePatient, true},
		{"doctor_token_for_patient_role", "doc@x.com", domain.RolePatient, false},
		{"patient_token_for_admin_role", "pat@x.com", domain.RoleAdmin, false},
		{"unknown_identity", "ghost@x.com", domain.RoleDoctor, false},
		{"unknown_role", "root", domain.Role("nurse"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := ts.Issue(tt.identity)
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			if got := ts.Validate(context.Background(), tok, tt.role); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenService_TamperedTokenFails(t *testing.T) {
	repo := mocks.NewMockRepository()
	seedDirectory(repo)
	ts := newTokenService(t, repo, nil)

	tok, err := ts.Issue("doc@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !ts.Validate(context.Background(), tok, domain.RoleDoctor) {
		t.Fatal("untouched token should validate")
	}

	for i := range tok {
		replacement := byte('A')
		if tok[i] == 'A' {
			replacement = 'B'
		}
		mutated := tok[:i] + string(replacement) + tok[i+1:]
		if ts.Validate(context.Background(), mutated, domain.RoleDoctor) {
			t.Errorf("token mutated at position %d still validates", i)
		}
	}
}

func TestTokenService_Expiry(t *testing.T) {
	repo := mocks.NewMockRepository()
	seedDirectory(repo)

	issuedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	now := issuedAt
	ts := newTokenService(t, repo, func() time.Time { return now })

	tok, err := ts.Issue("pat@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	now = issuedAt.Add(services.TokenLifetime - time.Second)
	if !ts.Validate(context.Background(), tok, domain.RolePatient) {
		t.Error("token should be valid just before expiry")
	}

	now = issuedAt.Add(services.TokenLifetime + time.Second)
	if ts.Validate(context.Background(), tok, domain.RolePatient) {
		t.Error("token should be rejected after expiry")
	}
}

func TestTokenService_RejectsForeignKeyAndGarbage(t *testing.T) {
	repo := mocks.NewMockRepository()
	seedDirectory(repo)
	ts := newTokenService(t, repo, nil)

	other, err := services.NewTokenService(strings.Repeat("z", 32), repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	foreign, err := other.Issue("doc@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for _, raw := range []string{"", "not-a-token", "a.b.c", foreign} {
		if ts.Validate(context.Background(), raw, domain.RoleDoctor) {
			t.Errorf("Validate(%q) = true, want false", raw)
		}
	}
}

func TestTokenService_DirectoryErrorFailsClosed(t *testing.T) {
	repo := mocks.NewMockRepository()
	seedDirectory(repo)
	ts := newTokenService(t, repo, nil)

	tok, err := ts.Issue("doc@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	repo.DirectoryError = domain.ErrInternal
	if ts.Validate(context.Background(), tok, domain.RoleDoctor) {
		t.Error("directory failure must not validate")
	}
}

func TestTokenService_RevalidatesAgainstDirectory(t *testing.T) {
	repo := mocks.NewMockRepository()
	id := repo.SeedDoctor(domain.Doctor{Name: "Doc", Email: "doc@x.com"})
	ts := newTokenService(t, repo, nil)

	tok, err := ts.Issue("doc@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := repo.DeleteDoctor(context.Background(), id); err != nil {
		t.Fatalf("DeleteDoctor: %v", err)
	}
	if ts.Validate(context.Background(), tok, domain.RoleDoctor) {
		t.Error("token of a deleted doctor must not validate")
	}
}
