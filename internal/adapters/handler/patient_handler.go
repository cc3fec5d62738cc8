package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/adapters/middleware"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

type PatientHandler struct {
	patients ports.PatientService
	logger   zerolog.Logger
}

func NewPatientHandler(patients ports.PatientService, logger zerolog.Logger) *PatientHandler {
	return &PatientHandler{
		patients: patients,
		logger:   logger.With().Str("component", "patient_handler").Logger(),
	}
}

type RegisterPatientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

func (h *PatientHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterPatientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	patient := &domain.Patient{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	}
	writeOutcome(w, h.patients.RegisterPatient(r.Context(), patient), http.StatusConflict, func() {
		writeJSON(w, r, http.StatusCreated, patient)
	})
}

// Me returns the profile of the calling patient.
func (h *PatientHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())
	patient, err := h.patients.PatientByEmail(r.Context(), principal.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Msg("failed to load patient")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, patient)
}

func (h *PatientHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	appointments, err := h.patients.PatientAppointments(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Int64("patient_id", id).Msg("failed to list appointments")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, appointments)
}

// FilterAppointments narrows the caller's appointments by condition ("past"
// or upcoming) and an optional doctor name.
func (h *PatientHandler) FilterAppointments(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())
	q := r.URL.Query()
	appointments, err := h.patients.FilterAppointments(r.Context(), principal.Subject, q.Get("condition"), q.Get("doctor"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Msg("failed to filter appointments")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, appointments)
}

func (h *PatientHandler) All(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patients.AllPatients(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list patients")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, patients)
}
