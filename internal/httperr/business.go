package httperr

import "errors"

// Business result codes returned by the booking use cases. They are
// definitive outcomes, never retried.
const (
	CodeNoServices         = "NO_SERVICES"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeLimitExceeded      = "LIMIT_EXCEEDED"
	CodeSlotTaken          = "SLOT_TAKEN"
	CodeAlreadyBlocked     = "ALREADY_BLOCKED"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeRateLimited        = "RATE_LIMITED"
	CodeDatabase           = "DATABASE_ERROR"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode extracts the code carried by err, or "" when err is not a
// business outcome (i.e. it is infrastructural).
func BusinessCode(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
