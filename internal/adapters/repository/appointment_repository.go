package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
)

const appointmentSelect = `
	SELECT a.id, a.doctor_id, a.patient_id, a.appointment_date, a.status, a.notes, d.name, p.name
	FROM appointments a
	JOIN doctors d ON d.id = a.doctor_id
	JOIN patients p ON p.id = a.patient_id`

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var status string
	if err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.AppointmentTime, &status, &a.Notes, &a.DoctorName, &a.PatientName); err != nil {
		return nil, err
	}
	a.Status = domain.ParseStatus(status)
	return &a, nil
}

func eventFor(eventType string, a *domain.Appointment) domain.AppointmentEvent {
	return domain.AppointmentEvent{
		Type:          eventType,
		AppointmentID: a.ID,
		DoctorID:      a.DoctorID,
		PatientID:     a.PatientID,
		Status:        a.Status.String(),
		At:            a.AppointmentTime,
	}
}

func (r *SQLRepository) CreateAppointment(ctx context.Context, a *domain.Appointment) error {
	a.AppointmentTime = wallClock(a.AppointmentTime)
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			"INSERT INTO appointments (doctor_id, patient_id, appointment_date, status, notes) VALUES ($1, $2, $3, $4, $5) RETURNING id",
			a.DoctorID, a.PatientID, a.AppointmentTime, a.Status.String(), a.Notes,
		).Scan(&a.ID); err != nil {
			return err
		}
		return writeOutbox(ctx, tx, eventFor(domain.EventAppointmentBooked, a))
	})
	return translate("create appointment", err)
}

func (r *SQLRepository) FindAppointmentByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRowContext(ctx, appointmentSelect+" WHERE a.id = $1", id))
	if err != nil {
		return nil, translate("find appointment", err)
	}
	return a, nil
}

func (r *SQLRepository) AppointmentExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, translate("check appointment", err)
	}
	return exists, nil
}

func (r *SQLRepository) UpdateAppointment(ctx context.Context, a *domain.Appointment) error {
	a.AppointmentTime = wallClock(a.AppointmentTime)
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE appointments SET doctor_id = $1, patient_id = $2, appointment_date = $3, status = $4, notes = $5 WHERE id = $6",
			a.DoctorID, a.PatientID, a.AppointmentTime, a.Status.String(), a.Notes, a.ID,
		)
		if err := affectedOne(res, err); err != nil {
			return err
		}
		return writeOutbox(ctx, tx, eventFor(domain.EventAppointmentUpdated, a))
	})
	return translate("update appointment", err)
}

func (r *SQLRepository) UpdateAppointmentStatus(ctx context.Context, id int64, status domain.Status) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		a := domain.Appointment{ID: id, Status: status}
		if err := tx.QueryRowContext(ctx,
			"UPDATE appointments SET status = $1 WHERE id = $2 RETURNING doctor_id, patient_id, appointment_date",
			status.String(), id,
		).Scan(&a.DoctorID, &a.PatientID, &a.AppointmentTime); err != nil {
			return err
		}
		return writeOutbox(ctx, tx, eventFor(domain.EventAppointmentStatusChanged, &a))
	})
	return translate("update appointment status", err)
}

func (r *SQLRepository) DeleteAppointment(ctx context.Context, id int64) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		a := domain.Appointment{ID: id}
		var status string
		if err := tx.QueryRowContext(ctx,
			"DELETE FROM appointments WHERE id = $1 RETURNING doctor_id, patient_id, appointment_date, status",
			id,
		).Scan(&a.DoctorID, &a.PatientID, &a.AppointmentTime, &status); err != nil {
			return err
		}
		a.Status = domain.ParseStatus(status)
		return writeOutbox(ctx, tx, eventFor(domain.EventAppointmentCancelled, &a))
	})
	return translate("delete appointment", err)
}

func (r *SQLRepository) listAppointments(ctx context.Context, query string, args ...any) ([]domain.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("list appointments", err)
	}
	defer rows.Close()

	out := []domain.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, translate("scan appointment", err)
		}
		out = append(out, *a)
	}
	return out, translate("list appointments", rows.Err())
}

func (r *SQLRepository) ListDoctorAppointments(ctx context.Context, doctorID int64, from, to time.Time, patientName string) ([]domain.Appointment, error) {
	query := appointmentSelect + `
	WHERE a.doctor_id = $1 AND a.appointment_date >= $2 AND a.appointment_date < $3`
	args := []any{doctorID, wallClock(from), wallClock(to)}
	if patientName != "" {
		query += ` AND p.name ILIKE $4`
		args = append(args, likePattern(patientName))
	}
	return r.listAppointments(ctx, query+" ORDER BY a.appointment_date, a.id", args...)
}

func (r *SQLRepository) ListPatientAppointments(ctx context.Context, patientID int64) ([]domain.Appointment, error) {
	return r.listAppointments(ctx, appointmentSelect+" WHERE a.patient_id = $1 ORDER BY a.appointment_date, a.id", patientID)
}

func (r *SQLRepository) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	return r.listAppointments(ctx, appointmentSelect+" ORDER BY a.appointment_date, a.id")
}
