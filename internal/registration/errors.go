package registration

import (
	"errors"
	"fmt"
)

var (
	// ErrNoScans is returned when Assemble is called without input.
	ErrNoScans = errors.New("no scans to assemble")
	// ErrInvalidReference is returned when the reference index is out of range.
	ErrInvalidReference = errors.New("invalid reference scan")
	// ErrRegistrationFailed is returned when some scans share too few
	// beacons, directly or through other scans, with the reference.
	ErrRegistrationFailed = errors.New("registration failed")
	// ErrMatcherBudgetExceeded is returned when assembly makes more matcher
	// calls than Options.MaxMatcherCalls allows.
	ErrMatcherBudgetExceeded = errors.New("matcher call budget exceeded")
)

// FailureError lists the scans that could not be connected to the reference.
type FailureError struct {
	Reference    int
	Unregistered []int
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("%v: %d scan(s) not connected to scanner %d: %v",
		ErrRegistrationFailed, len(e.Unregistered), e.Reference, e.Unregistered)
}

func (e *FailureError) Unwrap() error { return ErrRegistrationFailed }
