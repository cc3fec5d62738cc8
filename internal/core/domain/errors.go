package domain

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrSlotUnavailable = errors.New("slot unavailable")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInternal        = errors.New("internal failure")
)

// Outcome is the integer result code returned by mutating operations.
// Callers must compare against the exact constant.
type Outcome int

const (
	OutcomeNotFound Outcome = -1
	OutcomeFailed   Outcome = 0
	OutcomeOK       Outcome = 1
)

// OutcomeConflict shares -1 with OutcomeNotFound.
const OutcomeConflict = OutcomeNotFound

// SlotValidation is the result of checking a requested time against a doctor's slots.
type SlotValidation int

const (
	ValidationDoctorNotFound  SlotValidation = -1
	ValidationSlotUnavailable SlotValidation = 0
	ValidationOK              SlotValidation = 1
)
