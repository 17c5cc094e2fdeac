package progression

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for unknown chapters and questions, and for hidden
// chapters that are still locked, so that locked content does not reveal
// that it exists.
var ErrNotFound = errors.New("not found")

// LockReason says which gate refused access.
type LockReason string

const (
	// ReasonSpecialThreshold: chapter 0 needs more total answers.
	ReasonSpecialThreshold LockReason = "special-threshold"
	// ReasonProgress: main-line progress has not reached the chapter.
	ReasonProgress LockReason = "progress"
	// ReasonPrerequisites: one or more question prerequisites are unmet.
	ReasonPrerequisites LockReason = "prerequisites"
)

// LockedError reports content that exists but is not visible yet.
type LockedError struct {
	Reason LockReason
	// Conditions is the full per-condition breakdown, in declared order,
	// when Reason is ReasonPrerequisites.
	Conditions []ConditionStatus
}

func (e *LockedError) Error() string {
	if e.Reason == ReasonPrerequisites {
		unmet := 0
		for _, c := range e.Conditions {
			if !c.Satisfied {
				unmet++
			}
		}
		return fmt.Sprintf("locked: %d of %d prerequisites unmet", unmet, len(e.Conditions))
	}
	return fmt.Sprintf("locked: %s", e.Reason)
}

// AsLocked returns err as a *LockedError when it is one.
func AsLocked(err error) (*LockedError, bool) {
	var le *LockedError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
