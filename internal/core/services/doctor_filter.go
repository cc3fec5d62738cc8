package services

import (
	"strings"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
)

// DoctorFilter is the conjunction of a name, speciality and time-of-day
// criterion. Each criterion matches everything when it is a wildcard.
type DoctorFilter struct {
	Name       string
	Speciality string
	Time       string
}

// Apply returns the doctors matching every criterion, in input order.
func (f DoctorFilter) Apply(doctors []domain.Doctor) []domain.Doctor {
	out := make([]domain.Doctor, 0, len(doctors))
	for i := range doctors {
		if f.Match(&doctors[i]) {
			out = append(out, doctors[i])
		}
	}
	return out
}

func (f DoctorFilter) Match(d *domain.Doctor) bool {
	return containsFold(d.Name, f.Name) &&
		containsFold(d.Speciality, f.Speciality) &&
		matchesTime(d, f.Time)
}

func containsFold(value, criterion string) bool {
	if domain.IsWildcard(criterion) {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(strings.TrimSpace(criterion)))
}

// matchesTime treats a criterion with a colon as a literal slot and anything
// else as a bucket name. Slots that fail to parse never fall into a bucket.
func matchesTime(d *domain.Doctor, criterion string) bool {
	if domain.IsWildcard(criterion) {
		return true
	}
	if strings.Contains(criterion, ":") {
		return d.HasSlot(criterion)
	}
	bucket, ok := domain.Bucket(criterion)
	if !ok {
		return false
	}
	for _, slot := range d.AvailableTimes {
		tod, err := domain.ParseTimeOfDay(slot)
		if err != nil {
			continue
		}
		if bucket.Contains(tod.Hour) {
			return true
		}
	}
	return false
}
