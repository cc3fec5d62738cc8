package handler

import (
	"net/http"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/adapters/middleware"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
)

type Router struct {
	Auth         *AuthHandler
	Patients     *PatientHandler
	Doctors      *DoctorHandler
	Appointments *AppointmentHandler
	Health       *HealthHandler

	Gate    *middleware.AuthMiddleware
	Limiter *middleware.RateLimiter
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
}

var (
	adminOnly   = []domain.Role{domain.RoleAdmin}
	doctorOnly  = []domain.Role{domain.RoleDoctor}
	patientOnly = []domain.Role{domain.RolePatient}
	anyRole     = []domain.Role{domain.RoleAdmin, domain.RoleDoctor, domain.RolePatient}
	careRoles   = []domain.Role{domain.RoleDoctor, domain.RolePatient}
)

// Mux registers every route on a new ServeMux.
func (rt Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	gate := rt.Gate

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("GET /health", rt.Health.Health)
	mux.HandleFunc("GET /health/ready", rt.Health.Ready)
	mux.HandleFunc("GET /health/live", rt.Health.Live)
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	mux.HandleFunc("POST /admin/login", rt.Limiter.Limit(rt.Auth.LoginAdmin))
	mux.HandleFunc("POST /doctor/login", rt.Limiter.Limit(rt.Auth.LoginDoctor))
	mux.HandleFunc("POST /patient/login", rt.Limiter.Limit(rt.Auth.LoginPatient))

	mux.HandleFunc("POST /patient", rt.Patients.Register)
	mux.HandleFunc("GET /patient/me", gate.RequireRole(patientOnly, rt.Patients.Me))
	mux.HandleFunc("GET /patient/{id}/appointments", gate.RequireRole(anyRole, rt.Patients.Appointments))
	mux.HandleFunc("GET /patient/appointments/filter", gate.RequireRole(patientOnly, rt.Patients.FilterAppointments))
	mux.HandleFunc("GET /patient/all", gate.RequireRole(adminOnly, rt.Patients.All))

	mux.HandleFunc("GET /doctor", rt.Doctors.List)
	mux.HandleFunc("GET /doctor/filter", rt.Doctors.Filter)
	mux.HandleFunc("GET /doctor/{id}/availability", gate.RequireRoleFrom(AvailabilityRoles, rt.Doctors.Availability))
	mux.HandleFunc("POST /doctor", gate.RequireRole(adminOnly, rt.Doctors.Create))
	mux.HandleFunc("PUT /doctor/{id}", gate.RequireRole(adminOnly, rt.Doctors.Update))
	mux.HandleFunc("DELETE /doctor/{id}", gate.RequireRole(adminOnly, rt.Doctors.Delete))

	mux.HandleFunc("POST /appointments", gate.RequireRole(patientOnly, rt.Appointments.Create))
	mux.HandleFunc("GET /appointments", gate.RequireRole(adminOnly, rt.Appointments.All))
	mux.HandleFunc("GET /appointments/doctor", gate.RequireRole(doctorOnly, rt.Appointments.DoctorAppointments))
	mux.HandleFunc("GET /appointments/{id}", gate.RequireRole(anyRole, rt.Appointments.Get))
	mux.HandleFunc("PUT /appointments/{id}", gate.RequireRole(patientOnly, rt.Appointments.Update))
	mux.HandleFunc("PATCH /appointments/{id}/status", gate.RequireRole(careRoles, rt.Appointments.UpdateStatus))
	mux.HandleFunc("DELETE /appointments/{id}", gate.RequireRole(patientOnly, rt.Appointments.Cancel))

	return mux
}
