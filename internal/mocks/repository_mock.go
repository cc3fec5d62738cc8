// Package mocks provides in-memory implementations of the port interfaces for tests.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// MockRepository implements every repository port and the directory over
// in-memory maps. It enforces the same unique keys as the database schema.
type MockRepository struct {
	mu sync.RWMutex

	nextID       int64
	admins       map[int64]*domain.Admin
	doctors      map[int64]*domain.Doctor
	patients     map[int64]*domain.Patient
	appointments map[int64]*domain.Appointment

	// Call tracking
	DirectoryCalls         []string
	CreateAppointmentCalls []domain.Appointment
	UpdateStatusCalls      []int64
	DeleteAppointmentCalls []int64
	DeleteDoctorCalls      []int64

	// Error injection
	DirectoryError   error
	FindError        error
	ListError        error
	CreateError      error
	UpdateError      error
	DeleteError      error
	AppointmentError error
}

var (
	_ ports.Directory             = (*MockRepository)(nil)
	_ ports.AdminRepository       = (*MockRepository)(nil)
	_ ports.DoctorRepository      = (*MockRepository)(nil)
	_ ports.PatientRepository     = (*MockRepository)(nil)
	_ ports.AppointmentRepository = (*MockRepository)(nil)
)

func NewMockRepository() *MockRepository {
	return &MockRepository{
		admins:       make(map[int64]*domain.Admin),
		doctors:      make(map[int64]*domain.Doctor),
		patients:     make(map[int64]*domain.Patient),
		appointments: make(map[int64]*domain.Appointment),
	}
}

func (m *MockRepository) id() int64 {
	m.nextID++
	return m.nextID
}

// SeedAdmin stores an admin as-is and returns its id.
func (m *MockRepository) SeedAdmin(a domain.Admin) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	m.admins[a.ID] = &a
	return a.ID
}

func (m *MockRepository) SeedDoctor(d domain.Doctor) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = m.id()
	d.AvailableTimes = append([]string(nil), d.AvailableTimes...)
	m.doctors[d.ID] = &d
	return d.ID
}

func (m *MockRepository) SeedPatient(p domain.Patient) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	m.patients[p.ID] = &p
	return p.ID
}

// SeedAppointment bypasses the unique slot check.
func (m *MockRepository) SeedAppointment(a domain.Appointment) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	if a.Status.IsZero() {
		a.Status = domain.StatusPending
	}
	m.appointments[a.ID] = &a
	return a.ID
}

// AppointmentCount returns the number of stored appointments.
func (m *MockRepository) AppointmentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.appointments)
}

// Doctor returns a copy of the stored doctor, including the password hash.
func (m *MockRepository) Doctor(id int64) (domain.Doctor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.doctors[id]
	if !ok {
		return domain.Doctor{}, false
	}
	return *d, true
}

func (m *MockRepository) Patient(id int64) (domain.Patient, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.patients[id]
	if !ok {
		return domain.Patient{}, false
	}
	return *p, true
}

// Directory

func (m *MockRepository) trackDirectory(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DirectoryCalls = append(m.DirectoryCalls, key)
	return m.DirectoryError
}

func (m *MockRepository) AdminByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	if err := m.trackDirectory("admin:" + username); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockRepository) DoctorByEmail(ctx context.Context, email string) (*domain.Doctor, error) {
	if err := m.trackDirectory("doctor:" + email); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.doctors {
		if d.Email == email {
			cp := *d
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockRepository) PatientByEmail(ctx context.Context, email string) (*domain.Patient, error) {
	if err := m.trackDirectory("patient:" + email); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.patients {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockRepository) PatientByPhone(ctx context.Context, phone string) (*domain.Patient, error) {
	if err := m.trackDirectory("phone:" + phone); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.patients {
		if p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Admins

func (m *MockRepository) CreateAdmin(ctx context.Context, admin *domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, a := range m.admins {
		if a.Username == admin.Username {
			return domain.ErrConflict
		}
	}
	admin.ID = m.id()
	cp := *admin
	m.admins[admin.ID] = &cp
	return nil
}

// Doctors

func (m *MockRepository) CreateDoctor(ctx context.Context, doctor *domain.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, d := range m.doctors {
		if d.Email == doctor.Email {
			return domain.ErrConflict
		}
	}
	doctor.ID = m.id()
	cp := *doctor
	cp.AvailableTimes = append([]string(nil), doctor.AvailableTimes...)
	m.doctors[doctor.ID] = &cp
	return nil
}

func (m *MockRepository) FindDoctorByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	d, ok := m.doctors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	cp.AvailableTimes = append([]string(nil), d.AvailableTimes...)
	return &cp, nil
}

func (m *MockRepository) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]domain.Doctor, 0, len(m.doctors))
	for _, d := range m.doctors {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockRepository) UpdateDoctor(ctx context.Context, doctor *domain.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.doctors[doctor.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, d := range m.doctors {
		if id != doctor.ID && d.Email == doctor.Email {
			return domain.ErrConflict
		}
	}
	cp := *doctor
	cp.AvailableTimes = append([]string(nil), doctor.AvailableTimes...)
	m.doctors[doctor.ID] = &cp
	return nil
}

func (m *MockRepository) DeleteDoctor(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteDoctorCalls = append(m.DeleteDoctorCalls, id)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.doctors[id]; !ok {
		return domain.ErrNotFound
	}
	for aid, a := range m.appointments {
		if a.DoctorID == id {
			delete(m.appointments, aid)
		}
	}
	delete(m.doctors, id)
	return nil
}

// Patients

func (m *MockRepository) CreatePatient(ctx context.Context, patient *domain.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, p := range m.patients {
		if p.Email == patient.Email || p.Phone == patient.Phone {
			return domain.ErrConflict
		}
	}
	patient.ID = m.id()
	cp := *patient
	m.patients[patient.ID] = &cp
	return nil
}

func (m *MockRepository) FindPatientByID(ctx context.Context, id int64) (*domain.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	p, ok := m.patients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockRepository) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]domain.Patient, 0, len(m.patients))
	for _, p := range m.patients {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Appointments

func (m *MockRepository) slotTaken(doctorID int64, at time.Time, except int64) bool {
	for id, a := range m.appointments {
		if id != except && a.DoctorID == doctorID && a.AppointmentTime.Equal(at) {
			return true
		}
	}
	return false
}

func (m *MockRepository) CreateAppointment(ctx context.Context, a *domain.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateAppointmentCalls = append(m.CreateAppointmentCalls, *a)
	if m.AppointmentError != nil {
		return m.AppointmentError
	}
	if m.slotTaken(a.DoctorID, a.AppointmentTime, 0) {
		return domain.ErrConflict
	}
	a.ID = m.id()
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

// joined fills the read-side doctor and patient names. Callers hold the lock.
func (m *MockRepository) joined(a *domain.Appointment) domain.Appointment {
	cp := *a
	if d, ok := m.doctors[a.DoctorID]; ok {
		cp.DoctorName = d.Name
	}
	if p, ok := m.patients[a.PatientID]; ok {
		cp.PatientName = p.Name
	}
	return cp
}

func (m *MockRepository) FindAppointmentByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	a, ok := m.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := m.joined(a)
	return &cp, nil
}

func (m *MockRepository) AppointmentExists(ctx context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return false, m.FindError
	}
	_, ok := m.appointments[id]
	return ok, nil
}

func (m *MockRepository) UpdateAppointment(ctx context.Context, a *domain.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.appointments[a.ID]; !ok {
		return domain.ErrNotFound
	}
	if m.slotTaken(a.DoctorID, a.AppointmentTime, a.ID) {
		return domain.ErrConflict
	}
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *MockRepository) UpdateAppointmentStatus(ctx context.Context, id int64, status domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, id)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	a, ok := m.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *MockRepository) DeleteAppointment(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteAppointmentCalls = append(m.DeleteAppointmentCalls, id)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.appointments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

func (m *MockRepository) list(keep func(*domain.Appointment) bool) ([]domain.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]domain.Appointment, 0)
	for _, a := range m.appointments {
		if keep(a) {
			out = append(out, m.joined(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentTime.Equal(out[j].AppointmentTime) {
			return out[i].AppointmentTime.Before(out[j].AppointmentTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockRepository) ListDoctorAppointments(ctx context.Context, doctorID int64, from, to time.Time, patientName string) ([]domain.Appointment, error) {
	needle := strings.ToLower(patientName)
	return m.list(func(a *domain.Appointment) bool {
		if a.DoctorID != doctorID || a.AppointmentTime.Before(from) || !a.AppointmentTime.Before(to) {
			return false
		}
		if needle == "" {
			return true
		}
		p, ok := m.patients[a.PatientID]
		return ok && strings.Contains(strings.ToLower(p.Name), needle)
	})
}

func (m *MockRepository) ListPatientAppointments(ctx context.Context, patientID int64) ([]domain.Appointment, error) {
	return m.list(func(a *domain.Appointment) bool { return a.PatientID == patientID })
}

func (m *MockRepository) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	return m.list(func(*domain.Appointment) bool { return true })
}
