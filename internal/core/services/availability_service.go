package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// AvailabilityService computes the free slots of a doctor on a date.
type AvailabilityService struct {
	doctors      ports.DoctorRepository
	appointments ports.AppointmentRepository
}

var _ ports.AvailabilityService = (*AvailabilityService)(nil)

func NewAvailabilityService(doctors ports.DoctorRepository, appointments ports.AppointmentRepository) *AvailabilityService {
	return &AvailabilityService{doctors: doctors, appointments: appointments}
}

// AvailableSlots returns the doctor's configured slots that are not booked on
// date. Slots that do not parse are always returned. An unknown doctor yields
// an empty result, not an error.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, doctorID int64, date time.Time) ([]string, error) {
	doctor, err := s.doctors.FindDoctorByID(ctx, doctorID)
	if errors.Is(err, domain.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load doctor %d: %w", doctorID, err)
	}

	from, to := domain.DayBounds(date)
	booked, err := s.appointments.ListDoctorAppointments(ctx, doctorID, from, to, "")
	if err != nil {
		return nil, fmt.Errorf("load appointments for doctor %d: %w", doctorID, err)
	}

	taken := make(map[domain.TimeOfDay]struct{}, len(booked))
	for i := range booked {
		taken[booked[i].TimeOfDay()] = struct{}{}
	}

	type candidate struct {
		raw    string
		tod    domain.TimeOfDay
		parsed bool
	}
	free := make([]candidate, 0, len(doctor.AvailableTimes))
	for _, slot := range doctor.AvailableTimes {
		tod, err := domain.ParseTimeOfDay(slot)
		if err != nil {
			// keep malformed slots visible
			free = append(free, candidate{raw: slot})
			continue
		}
		if _, ok := taken[tod]; ok {
			continue
		}
		free = append(free, candidate{raw: slot, tod: tod, parsed: true})
	}

	sort.SliceStable(free, func(i, j int) bool {
		a, b := free[i], free[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		return a.parsed && a.tod.Before(b.tod)
	})

	out := make([]string, len(free))
	for i, c := range free {
		out[i] = c.raw
	}
	return out, nil
}
