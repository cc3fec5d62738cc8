package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/migrations"
)

// openTestDB connects to TEST_DB_CONNECTION_STRING (optionally from .env) and
// resets the schema. Tests skip when it is not configured.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	url := os.Getenv("TEST_DB_CONNECTION_STRING")
	if url == "" {
		t.Skip("TEST_DB_CONNECTION_STRING not set")
	}
	db, err := sql.Open("postgres", url)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Skipf("database unreachable: %v", err)
	}
	if err := migrations.Apply(ctx, db, zerolog.Nop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		"TRUNCATE outbox_events, appointments, doctor_available_times, doctors, patients, admins RESTART IDENTITY CASCADE",
	); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func countOutbox(t *testing.T, db *sql.DB, eventType string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM outbox_events WHERE event_type = $1", eventType).Scan(&n); err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	return n
}

func TestSQLRepository_AppointmentLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	doctor := &domain.Doctor{Name: "Dr Jones", Speciality: "GP", Email: "jones@x.com", Password: "h", AvailableTimes: []string{"14:00", "09:00"}}
	if err := repo.CreateDoctor(ctx, doctor); err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	patient := &domain.Patient{Name: "Alice Smith", Email: "alice@x.com", Phone: "1", Password: "h"}
	if err := repo.CreatePatient(ctx, patient); err != nil {
		t.Fatalf("create patient: %v", err)
	}

	found, err := repo.DoctorByEmail(ctx, "jones@x.com")
	if err != nil {
		t.Fatalf("doctor by email: %v", err)
	}
	if len(found.AvailableTimes) != 2 || found.AvailableTimes[0] != "14:00" {
		t.Errorf("slot order not kept: %v", found.AvailableTimes)
	}

	when := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	a := &domain.Appointment{DoctorID: doctor.ID, PatientID: patient.ID, AppointmentTime: when, Status: domain.StatusPending}
	if err := repo.CreateAppointment(ctx, a); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	dup := &domain.Appointment{DoctorID: doctor.ID, PatientID: patient.ID, AppointmentTime: when, Status: domain.StatusPending}
	if err := repo.CreateAppointment(ctx, dup); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("double booking: got %v, want ErrConflict", err)
	}

	day, next := domain.DayBounds(when)
	list, err := repo.ListDoctorAppointments(ctx, doctor.ID, day, next, "alice")
	if err != nil || len(list) != 1 || list[0].PatientName != "Alice Smith" {
		t.Errorf("list = %+v, %v", list, err)
	}

	if err := repo.UpdateAppointmentStatus(ctx, a.ID, domain.ParseStatus("NO_SHOW")); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, err := repo.FindAppointmentByID(ctx, a.ID)
	if err != nil || got.Status.String() != "NO_SHOW" {
		t.Errorf("status = %v, %v", got, err)
	}
	if err := repo.UpdateAppointmentStatus(ctx, 9999, domain.StatusCompleted); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing status update: got %v", err)
	}

	if err := repo.DeleteDoctor(ctx, doctor.ID); err != nil {
		t.Fatalf("delete doctor: %v", err)
	}
	if exists, _ := repo.AppointmentExists(ctx, a.ID); exists {
		t.Error("appointment should be deleted with its doctor")
	}

	if n := countOutbox(t, db, domain.EventAppointmentBooked); n != 1 {
		t.Errorf("booked events = %d", n)
	}
	if n := countOutbox(t, db, domain.EventAppointmentCancelled); n != 1 {
		t.Errorf("cancelled events = %d", n)
	}
}

func TestSQLRepository_PatientUniqueKeys(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	if err := repo.CreatePatient(ctx, &domain.Patient{Name: "A", Email: "a@x.com", Phone: "1", Password: "h"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.CreatePatient(ctx, &domain.Patient{Name: "B", Email: "b@x.com", Phone: "1", Password: "h"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate phone: got %v", err)
	}
	if _, err := repo.PatientByPhone(ctx, "2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing phone: got %v", err)
	}
}
