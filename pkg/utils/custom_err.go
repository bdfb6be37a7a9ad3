package utils

import "errors"

var (
	ErrMissingSmsFields          = errors.New("missing sender or message")
	ErrMissingVerificationFields = errors.New("user_id and payment_reference are required")
	ErrInvalidUserID             = errors.New("invalid user_id")
	ErrInvalidPlanID             = errors.New("invalid plan_id")
	ErrPlanNotFound              = errors.New("plan not found or inactive")
	ErrPlanRequired              = errors.New("plan_name is required for new verification")
	ErrAmountRequired            = errors.New("amount_cents is required when creating a new transaction")
	ErrSmsStoreFailed            = errors.New("failed to save sms")
	ErrDatabaseError             = errors.New("database error")
	ErrForbidden                 = errors.New("forbidden")
)

// ServiceError pairs a sentinel with the underlying cause so handlers can expose
// the cause as "details" while still matching on the sentinel.
type ServiceError struct {
	Kind  error
	Cause error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Cause.Error()
}

func (e *ServiceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func WrapServiceError(kind, cause error) error {
	return &ServiceError{Kind: kind, Cause: cause}
}
