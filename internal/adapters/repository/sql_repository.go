package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

const uniqueViolation = "23505"

type SQLRepository struct {
	db *sql.DB
}

var (
	_ ports.Directory             = (*SQLRepository)(nil)
	_ ports.AdminRepository       = (*SQLRepository)(nil)
	_ ports.DoctorRepository      = (*SQLRepository)(nil)
	_ ports.PatientRepository     = (*SQLRepository)(nil)
	_ ports.AppointmentRepository = (*SQLRepository)(nil)
)

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// translate maps driver errors onto domain sentinels.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %s: %w", op, pqErr.Constraint, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *SQLRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// writeOutbox records evt in the caller's transaction; the relay publishes it.
func writeOutbox(ctx context.Context, tx *sql.Tx, evt domain.AppointmentEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload) VALUES ($1, $2, $3)",
		uuid.NewString(),
		evt.Type,
		payload,
	)
	return err
}

// wallClock drops the zone so the value is stored as clinic-local wall time.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// likePattern builds a substring ILIKE pattern with wildcards escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
