package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

type DoctorHandler struct {
	doctors      ports.DoctorService
	availability ports.AvailabilityService
	logger       zerolog.Logger
}

func NewDoctorHandler(doctors ports.DoctorService, availability ports.AvailabilityService, logger zerolog.Logger) *DoctorHandler {
	return &DoctorHandler{
		doctors:      doctors,
		availability: availability,
		logger:       logger.With().Str("component", "doctor_handler").Logger(),
	}
}

type DoctorRequest struct {
	Name           string   `json:"name"`
	Speciality     string   `json:"speciality"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Password       string   `json:"password"`
	AvailableTimes []string `json:"available_times"`
}

func (req DoctorRequest) toDoctor(id int64) *domain.Doctor {
	return &domain.Doctor{
		ID:             id,
		Name:           req.Name,
		Speciality:     req.Speciality,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       req.Password,
		AvailableTimes: req.AvailableTimes,
	}
}

type AvailabilityResponse struct {
	DoctorID       int64    `json:"doctor_id"`
	Date           string   `json:"date"`
	AvailableTimes []string `json:"available_times"`
}

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctors.ListDoctors(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list doctors")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, doctors)
}

// Filter accepts name, speciality and time query parameters; missing ones
// match everything.
func (h *DoctorHandler) Filter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	doctors, err := h.doctors.FilterDoctors(r.Context(), q.Get("name"), q.Get("speciality"), q.Get("time"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to filter doctors")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, doctors)
}

// AvailabilityRoles reads the role the caller acts under from the role query
// parameter. An unknown role admits nobody.
func AvailabilityRoles(r *http.Request) []domain.Role {
	role, ok := domain.ParseRole(r.URL.Query().Get("role"))
	if !ok {
		return nil
	}
	return []domain.Role{role}
}

func (h *DoctorHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	slots, err := h.availability.AvailableSlots(r.Context(), id, date)
	if err != nil {
		h.logger.Error().Err(err).Int64("doctor_id", id).Msg("failed to resolve availability")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, AvailabilityResponse{
		DoctorID:       id,
		Date:           date.Format(time.DateOnly),
		AvailableTimes: slots,
	})
}

func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req DoctorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	doctor := req.toDoctor(0)
	writeOutcome(w, h.doctors.SaveDoctor(r.Context(), doctor), http.StatusConflict, func() {
		writeJSON(w, r, http.StatusCreated, doctor)
	})
}

func (h *DoctorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req DoctorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doctor := req.toDoctor(id)
	writeOutcome(w, h.doctors.UpdateDoctor(r.Context(), doctor), http.StatusNotFound, func() {
		writeJSON(w, r, http.StatusOK, doctor)
	})
}

func (h *DoctorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeOutcome(w, h.doctors.DeleteDoctor(r.Context(), id), http.StatusNotFound, func() {
		w.WriteHeader(http.StatusNoContent)
	})
}
