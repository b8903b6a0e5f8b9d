package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrCacheMiss       = errors.New("cache miss")
	ErrInvalidMenuItem = errors.New("invalid menu item")
	ErrInvalidPortion  = errors.New("invalid portion size")
	ErrLineNotFound    = errors.New("order line not found")
	ErrUnknownTable    = errors.New("unknown table")
	ErrInvalidSetting  = errors.New("invalid setting")
	ErrNoProfile       = errors.New("no signed-in profile")
	ErrAbandoned       = errors.New("request abandoned before its result arrived")

	ErrCartEmpty         = errors.New("cart is empty")
	ErrTableUnset        = errors.New("no table assigned")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotAdmin          = errors.New("admin actor required")
	ErrOrderInProgress   = errors.New("an order is already in progress")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

// GuardReason names why an operation was rejected without changing state.
type GuardReason string

const (
	ReasonCartEmpty         GuardReason = "cart_empty"
	ReasonTableUnset        GuardReason = "table_unset"
	ReasonInvalidTransition GuardReason = "invalid_transition"
	ReasonNotAdmin          GuardReason = "not_admin"
	ReasonOrderInProgress   GuardReason = "order_in_progress"
)

var reasonErrors = map[GuardReason]error{
	ReasonCartEmpty:         ErrCartEmpty,
	ReasonTableUnset:        ErrTableUnset,
	ReasonInvalidTransition: ErrInvalidTransition,
	ReasonNotAdmin:          ErrNotAdmin,
	ReasonOrderInProgress:   ErrOrderInProgress,
}

// GuardError is returned when a lifecycle operation is a no-op because its precondition failed.
type GuardError struct {
	Op     string
	Status Status
	Reason GuardReason
}

func NewGuardError(op string, status Status, cause error) *GuardError {
	g := &GuardError{Op: op, Status: status, Reason: ReasonInvalidTransition}
	for reason, err := range reasonErrors {
		if errors.Is(cause, err) {
			g.Reason = reason
			break
		}
	}
	return g
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%s from %s: %s", e.Op, e.Status, e.Unwrap())
}

func (e *GuardError) Unwrap() error {
	if err, ok := reasonErrors[e.Reason]; ok {
		return err
	}
	return ErrInvalidTransition
}
