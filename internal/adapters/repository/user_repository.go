package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
)

func (r *SQLRepository) AdminByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password FROM admins WHERE username = $1",
		username,
	).Scan(&a.ID, &a.Username, &a.Password)
	if err != nil {
		return nil, translate("find admin", err)
	}
	return &a, nil
}

func (r *SQLRepository) CreateAdmin(ctx context.Context, admin *domain.Admin) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO admins (username, password) VALUES ($1, $2) RETURNING id",
		admin.Username,
		admin.Password,
	).Scan(&admin.ID)
	return translate("create admin", err)
}

const doctorColumns = "id, name, speciality, email, phone, password"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoctor(row rowScanner) (*domain.Doctor, error) {
	var d domain.Doctor
	if err := row.Scan(&d.ID, &d.Name, &d.Speciality, &d.Email, &d.Phone, &d.Password); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *SQLRepository) loadTimes(ctx context.Context, d *domain.Doctor) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT available_time FROM doctor_available_times WHERE doctor_id = $1 ORDER BY position",
		d.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	d.AvailableTimes = []string{}
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return err
		}
		d.AvailableTimes = append(d.AvailableTimes, slot)
	}
	return rows.Err()
}

func (r *SQLRepository) findDoctor(ctx context.Context, where string, arg any) (*domain.Doctor, error) {
	d, err := scanDoctor(r.db.QueryRowContext(ctx, "SELECT "+doctorColumns+" FROM doctors WHERE "+where+" = $1", arg))
	if err != nil {
		return nil, translate("find doctor", err)
	}
	if err := r.loadTimes(ctx, d); err != nil {
		return nil, translate("load doctor times", err)
	}
	return d, nil
}

func (r *SQLRepository) DoctorByEmail(ctx context.Context, email string) (*domain.Doctor, error) {
	return r.findDoctor(ctx, "email", email)
}

func (r *SQLRepository) FindDoctorByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	return r.findDoctor(ctx, "id", id)
}

func (r *SQLRepository) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+doctorColumns+" FROM doctors ORDER BY id")
	if err != nil {
		return nil, translate("list doctors", err)
	}
	defer rows.Close()

	doctors := []domain.Doctor{}
	index := map[int64]int{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, translate("scan doctor", err)
		}
		d.AvailableTimes = []string{}
		index[d.ID] = len(doctors)
		doctors = append(doctors, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list doctors", err)
	}

	times, err := r.db.QueryContext(ctx,
		"SELECT doctor_id, available_time FROM doctor_available_times ORDER BY doctor_id, position")
	if err != nil {
		return nil, translate("list doctor times", err)
	}
	defer times.Close()
	for times.Next() {
		var id int64
		var slot string
		if err := times.Scan(&id, &slot); err != nil {
			return nil, translate("scan doctor time", err)
		}
		if i, ok := index[id]; ok {
			doctors[i].AvailableTimes = append(doctors[i].AvailableTimes, slot)
		}
	}
	return doctors, translate("list doctor times", times.Err())
}

func replaceTimes(ctx context.Context, tx *sql.Tx, doctorID int64, slots []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM doctor_available_times WHERE doctor_id = $1", doctorID); err != nil {
		return err
	}
	for i, slot := range slots {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO doctor_available_times (doctor_id, position, available_time) VALUES ($1, $2, $3)",
			doctorID, i, slot,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRepository) CreateDoctor(ctx context.Context, d *domain.Doctor) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			"INSERT INTO doctors (name, speciality, email, phone, password) VALUES ($1, $2, $3, $4, $5) RETURNING id",
			d.Name, d.Speciality, d.Email, d.Phone, d.Password,
		).Scan(&d.ID); err != nil {
			return err
		}
		return replaceTimes(ctx, tx, d.ID, d.AvailableTimes)
	})
	return translate("create doctor", err)
}

func (r *SQLRepository) UpdateDoctor(ctx context.Context, d *domain.Doctor) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE doctors SET name = $1, speciality = $2, email = $3, phone = $4, password = $5 WHERE id = $6",
			d.Name, d.Speciality, d.Email, d.Phone, d.Password, d.ID,
		)
		if err := affectedOne(res, err); err != nil {
			return err
		}
		return replaceTimes(ctx, tx, d.ID, d.AvailableTimes)
	})
	return translate("update doctor", err)
}

// DeleteDoctor removes the doctor's appointments explicitly so each one
// produces a cancellation event.
func (r *SQLRepository) DeleteDoctor(ctx context.Context, id int64) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			"DELETE FROM appointments WHERE doctor_id = $1 RETURNING id, patient_id, appointment_date",
			id,
		)
		if err != nil {
			return err
		}
		var events []domain.AppointmentEvent
		for rows.Next() {
			evt := domain.AppointmentEvent{Type: domain.EventAppointmentCancelled, DoctorID: id}
			if err := rows.Scan(&evt.AppointmentID, &evt.PatientID, &evt.At); err != nil {
				rows.Close()
				return err
			}
			events = append(events, evt)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM doctors WHERE id = $1", id)
		if err := affectedOne(res, err); err != nil {
			return err
		}
		for _, evt := range events {
			if err := writeOutbox(ctx, tx, evt); err != nil {
				return err
			}
		}
		return nil
	})
	return translate("delete doctor", err)
}

const patientColumns = "id, name, email, phone, address, password"

func scanPatient(row rowScanner) (*domain.Patient, error) {
	var p domain.Patient
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.Password); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLRepository) findPatient(ctx context.Context, where string, arg any) (*domain.Patient, error) {
	p, err := scanPatient(r.db.QueryRowContext(ctx, "SELECT "+patientColumns+" FROM patients WHERE "+where+" = $1", arg))
	if err != nil {
		return nil, translate("find patient", err)
	}
	return p, nil
}

func (r *SQLRepository) PatientByEmail(ctx context.Context, email string) (*domain.Patient, error) {
	return r.findPatient(ctx, "email", email)
}

func (r *SQLRepository) PatientByPhone(ctx context.Context, phone string) (*domain.Patient, error) {
	return r.findPatient(ctx, "phone", phone)
}

func (r *SQLRepository) FindPatientByID(ctx context.Context, id int64) (*domain.Patient, error) {
	return r.findPatient(ctx, "id", id)
}

func (r *SQLRepository) CreatePatient(ctx context.Context, p *domain.Patient) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO patients (name, email, phone, address, password) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		p.Name, p.Email, p.Phone, p.Address, p.Password,
	).Scan(&p.ID)
	return translate("create patient", err)
}

func (r *SQLRepository) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+patientColumns+" FROM patients ORDER BY id")
	if err != nil {
		return nil, translate("list patients", err)
	}
	defer rows.Close()

	patients := []domain.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, translate("scan patient", err)
		}
		patients = append(patients, *p)
	}
	return patients, translate("list patients", rows.Err())
}

// affectedOne turns an update that matched no row into sql.ErrNoRows.
func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no rows affected: %w", sql.ErrNoRows)
	}
	return nil
}
