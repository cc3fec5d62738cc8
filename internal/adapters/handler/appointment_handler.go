package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/adapters/middleware"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

type AppointmentHandler struct {
	booking ports.BookingService
	status  ports.StatusService
	logger  zerolog.Logger
}

func NewAppointmentHandler(booking ports.BookingService, status ports.StatusService, logger zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		booking: booking,
		status:  status,
		logger:  logger.With().Str("component", "appointment_handler").Logger(),
	}
}

type AppointmentRequest struct {
	DoctorID        int64  `json:"doctor_id"`
	PatientID       int64  `json:"patient_id"`
	AppointmentTime string `json:"appointment_time"`
	Status          string `json:"status,omitempty"`
	Notes           string `json:"notes"`
}

func (req AppointmentRequest) toAppointment(id int64) (*domain.Appointment, error) {
	at, err := parseTimestamp(req.AppointmentTime)
	if err != nil {
		return nil, err
	}
	return &domain.Appointment{
		ID:              id,
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		AppointmentTime: at,
		Status:          domain.ParseStatus(req.Status),
		Notes:           req.Notes,
	}, nil
}

type StatusRequest struct {
	Status string `json:"status"`
}

// Create validates the requested slot against the doctor's schedule before
// saving. A slot that is configured but already booked is rejected on save.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req AppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	appt, err := req.toAppointment(0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	validation, err := h.booking.ValidateAppointment(r.Context(), appt.DoctorID, appt.AppointmentTime)
	if err != nil {
		h.logger.Error().Err(err).Int64("doctor_id", appt.DoctorID).Msg("failed to validate appointment")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	switch validation {
	case domain.ValidationDoctorNotFound:
		http.Error(w, "doctor not found", http.StatusNotFound)
		return
	case domain.ValidationSlotUnavailable:
		http.Error(w, "slot unavailable", http.StatusConflict)
		return
	}

	writeOutcome(w, h.booking.SaveAppointment(r.Context(), appt), http.StatusConflict, func() {
		writeJSON(w, r, http.StatusCreated, appt)
	})
}

// Update replaces an appointment. A taken slot answers 409, an unknown id 404.
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req AppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	appt, err := req.toAppointment(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	outcome := h.booking.UpdateAppointment(r.Context(), appt)
	if outcome == domain.OutcomeNotFound {
		// -1 covers both an unknown id and a taken slot.
		if _, err := h.booking.GetAppointment(r.Context(), id); err == nil {
			http.Error(w, "slot unavailable", http.StatusConflict)
			return
		}
	}
	writeOutcome(w, outcome, http.StatusNotFound, func() {
		writeJSON(w, r, http.StatusOK, appt)
	})
}

// UpdateStatus overwrites the status and keeps the appointment.
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	writeOutcome(w, h.status.UpdateStatus(r.Context(), id, req.Status), http.StatusNotFound, func() {
		writeJSON(w, r, http.StatusOK, MessageResponse{Message: "Status updated"})
	})
}

// Cancel deletes the appointment.
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeOutcome(w, h.booking.CancelAppointment(r.Context(), id), http.StatusNotFound, func() {
		w.WriteHeader(http.StatusNoContent)
	})
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	appt, err := h.booking.GetAppointment(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Int64("appointment_id", id).Msg("failed to load appointment")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, appt)
}

// DoctorAppointments lists the calling doctor's appointments on the date query
// parameter, optionally narrowed by patientName.
func (h *AppointmentHandler) DoctorAppointments(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())
	q := r.URL.Query()
	date, err := parseDate(q.Get("date"))
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	appointments, err := h.booking.DoctorAppointments(r.Context(), principal.Subject, date, q.Get("patientName"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "doctor not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Msg("failed to list doctor appointments")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, appointments)
}

func (h *AppointmentHandler) All(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.booking.AllAppointments(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list appointments")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, appointments)
}
